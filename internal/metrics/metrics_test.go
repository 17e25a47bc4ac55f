package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCalculation(t *testing.T) {
	m := NewUnregistered()

	m.RecordCalculation(OutcomeOK, 5.5)
	m.RecordCalculation(OutcomeOK, 1.2)
	m.RecordCalculation(OutcomeInvalid, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Calculations.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Calculations.WithLabelValues(OutcomeInvalid)))
	assert.Equal(t, 1, testutil.CollectAndCount(m.CalculatedEnergy))
}

func TestRecordBatch(t *testing.T) {
	m := NewUnregistered()
	m.RecordBatch(3, 2, 10*time.Millisecond)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.BatchRows.WithLabelValues(OutcomeOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.BatchRows.WithLabelValues(OutcomeError)))
}

func TestRecordMutationAndHTTP(t *testing.T) {
	m := NewUnregistered()
	m.RecordMutation("custom_machine.create")
	m.RecordHTTP("POST /v1/calculate", http.StatusOK, time.Millisecond)
	m.RecordHTTP("POST /v1/calculate", http.StatusBadRequest, time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Mutations.WithLabelValues("custom_machine.create")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST /v1/calculate", "400")))
}

func TestNew_RegistersOnGivenRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	assert.Panics(t, func() { New(reg) }, "second registration must collide")
}

func TestHandler(t *testing.T) {
	m := NewUnregistered()
	m.RecordCalculation(OutcomeOK, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "carboncam_calculations_total")
}
