package registry

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/carbon"
	"github.com/AliTumkaya-new/CarbonCAM-sub000/internal/postgres"
)

// TestPGStores_Integration runs the registry against a real PostgreSQL.
// Set CARBONCAM_TEST_DATABASE_URL to enable it.
func TestPGStores_Integration(t *testing.T) {
	url := os.Getenv("CARBONCAM_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CARBONCAM_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cfg := postgres.DefaultConfig()
	cfg.URL = url
	client, err := postgres.Open(ctx, cfg, zerolog.Nop())
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, client.Migrate(ctx))

	catalog, err := Builtins()
	require.NoError(t, err)
	r := New(catalog, NewPGMachineStore(client.DB()), NewPGMaterialStore(client.DB()))

	scope := "test-" + uuid.NewString()

	m, err := r.CreateMachine(ctx, scope, validMachineDraft("Integration Mill"))
	require.NoError(t, err)

	_, err = r.CreateMachine(ctx, scope, validMachineDraft("Integration Mill"))
	assert.ErrorIs(t, err, carbon.ErrValidation)

	got, err := r.Machine(ctx, scope, m.ID)
	require.NoError(t, err)
	assert.Equal(t, m.Name, got.Name)
	assert.Equal(t, m.StandbyPowerKW, got.StandbyPowerKW)

	_, err = r.Machine(ctx, "other-"+scope, m.ID)
	assert.ErrorIs(t, err, carbon.ErrNotFound)

	updated, err := r.UpdateMachine(ctx, scope, m.ID, MachinePatch{StandbyPowerKW: ptr(3.3)})
	require.NoError(t, err)
	assert.Equal(t, 3.3, updated.StandbyPowerKW)

	mat, err := r.CreateMaterial(ctx, scope, validMaterialDraft("Integration Alloy"))
	require.NoError(t, err)

	materials, err := r.ListMaterials(ctx, scope)
	require.NoError(t, err)
	require.Len(t, materials, 3)
	assert.Equal(t, mat.ID, materials[2].ID)

	require.NoError(t, r.DeleteMachine(ctx, scope, m.ID))
	assert.ErrorIs(t, r.DeleteMachine(ctx, scope, m.ID), carbon.ErrNotFound)
	require.NoError(t, r.DeleteMaterial(ctx, scope, mat.ID))
}
