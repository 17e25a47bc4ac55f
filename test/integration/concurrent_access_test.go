// Package integration exercises the calculation engine across package
// boundaries: concurrent use of the shared components and, behind the
// integration build tag, the compiled binary.
//
// Run with: go test ./test/integration/... -v -run Concurrent
package integration

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/batch"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/config"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/history"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/pricing"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/registry"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/service"
)

const (
	// numGoroutines is the number of concurrent goroutines for stress testing.
	numGoroutines = 150

	// numIterations is the number of iterations per goroutine.
	numIterations = 10
)

func referenceParams() carbon.ProcessParameters {
	return carbon.ProcessParameters{InitialWeightKg: 10, FinalWeightKg: 9.2, ProcessTimeMinutes: 30}
}

// TestConcurrentAccess_Calculate verifies that concurrent calculations on the
// shared built-in catalog return identical results.
func TestConcurrentAccess_Calculate(t *testing.T) {
	catalog, err := registry.Builtins()
	require.NoError(t, err)
	ctx := context.Background()
	machine, err := catalog.Machine(ctx, "", "cnc_1")
	require.NoError(t, err)
	material, err := catalog.Material(ctx, "", "mat_4140")
	require.NoError(t, err)

	estimator := carbon.NewEstimator(carbon.DefaultFactors(0.44))

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*numIterations)
	results := make(chan float64, numGoroutines*numIterations)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				res, err := estimator.Estimate(machine, material, referenceParams())
				if err != nil {
					errs <- err
					return
				}
				results <- res.TotalCarbonKg
			}
		}()
	}

	wg.Wait()
	close(errs)
	close(results)

	require.Empty(t, errs, "No errors should occur during concurrent access")

	var first float64
	count := 0
	for v := range results {
		if count == 0 {
			first = v
		}
		assert.Equal(t, first, v, "All results should be identical")
		count++
	}
	assert.Equal(t, numGoroutines*numIterations, count)
	assert.InDelta(t, 2.440154, first, 1e-6)
}

// TestConcurrentAccess_Registry creates, reads and deletes custom profiles
// from many scopes at once. Each scope must only ever see its own profiles.
func TestConcurrentAccess_Registry(t *testing.T) {
	reg, err := registry.NewInMemory()
	require.NoError(t, err)
	ctx := context.Background()

	const scopes = 20
	var wg sync.WaitGroup
	errs := make(chan error, scopes*numIterations)

	for s := 0; s < scopes; s++ {
		scope := fmt.Sprintf("org-%d", s)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				standby, maxPower, eff := 1.0+float64(j), 10.0, 80.0
				m, err := reg.CreateMachine(ctx, scope, registry.MachineDraft{
					Name:              fmt.Sprintf("mill-%d", j),
					StandbyPowerKW:    &standby,
					OperatingPowerKW:  &maxPower,
					EfficiencyPercent: &eff,
				})
				if err != nil {
					errs <- err
					return
				}
				got, err := reg.Machine(ctx, scope, m.ID)
				if err != nil {
					errs <- err
					return
				}
				if got.Scope != scope {
					errs <- fmt.Errorf("machine %s resolved in scope %s belongs to %s", m.ID, scope, got.Scope)
					return
				}
				if j%2 == 1 {
					if err := reg.DeleteMachine(ctx, scope, m.ID); err != nil {
						errs <- err
						return
					}
				}
			}
		}()
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}

	for s := 0; s < scopes; s++ {
		list, err := reg.ListMachines(ctx, fmt.Sprintf("org-%d", s))
		require.NoError(t, err)
		assert.Len(t, list, len(reg.Catalog().Machines())+numIterations/2)
	}
}

// TestConcurrentAccess_Batch runs many batches in parallel through one
// calculator with internal concurrency and checks row order is preserved.
func TestConcurrentAccess_Batch(t *testing.T) {
	reg, err := registry.NewInMemory()
	require.NoError(t, err)
	calc := batch.NewCalculator(reg, carbon.DefaultFactors(0.44),
		batch.Options{Concurrency: 8}, zerolog.Nop())

	rows := make([]batch.RawRow, 50)
	for i := range rows {
		rows[i] = batch.RawRow{
			MachineID:     batch.Text("cnc_1"),
			MaterialID:    batch.Text("mat_4140"),
			InitialWeight: batch.Number(10 + float64(i)),
			FinalWeight:   batch.Number(9.2),
			ProcessTime:   batch.Number(30),
		}
		if i%10 == 3 {
			rows[i].MaterialID = batch.Text("missing")
		}
	}

	var wg sync.WaitGroup
	for g := 0; g < numGoroutines/10; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := calc.Calculate(context.Background(), "", rows)
			if !assert.NoError(t, err) {
				return
			}
			assert.Len(t, res.Rows, len(rows))
			assert.Equal(t, 5, res.Failed())
			for i, o := range res.Rows {
				assert.Equal(t, i, o.RowIndex)
				if o.OK() {
					assert.InDelta(t, 10+float64(i)-9.2, o.Result.RemovedMaterialWeightKg, 1e-9)
				}
			}
		}()
	}
	wg.Wait()
}

// TestConcurrentAccess_Service drives calculations with history and tariffs
// from many goroutines and checks every record is kept.
func TestConcurrentAccess_Service(t *testing.T) {
	reg, err := registry.NewInMemory()
	require.NoError(t, err)
	tariffs, err := pricing.NewClient(zerolog.Nop())
	require.NoError(t, err)
	hist := history.NewMemoryStore()
	svc := service.New(config.Default(), reg, hist, tariffs, nil, zerolog.Nop())

	ctx := context.Background()
	req := service.CalculateRequest{
		MachineID: "cnc_1", MaterialID: "mat_4140",
		InitialWeightKg: ptr(10.0), FinalWeightKg: ptr(9.2), TimeMin: ptr(30.0),
		TariffType: "Multi", OperationStartHHMM: "16:30", OperationEndHHMM: "17:30",
	}

	var wg sync.WaitGroup
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := svc.Calculate(ctx, "org-1", req)
			if !assert.NoError(t, err) {
				return
			}
			assert.NotEmpty(t, resp.CalculationID)
			if assert.NotNil(t, resp.EnergyCost) {
				assert.InDelta(t, 8.32, *resp.EnergyCost, 1e-9)
			}
		}()
	}
	wg.Wait()

	list, err := hist.List(ctx, "org-1", numGoroutines)
	require.NoError(t, err)
	assert.Len(t, list, numGoroutines)
}

func ptr(v float64) *float64 { return &v }
