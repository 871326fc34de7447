package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

func TestSeedPopulatesCatalog(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	seeder := NewSeederService(m)

	report, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(activityCatalog), report.Added)
	assert.Equal(t, 0, report.Skipped)

	docs, err := m.GetDocuments(ctx, activityTypesCollection)
	require.NoError(t, err)
	assert.Len(t, docs, len(activityCatalog))
}

func TestSeedSkipsExisting(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	seeder := NewSeederService(m)

	_, err := seeder.Seed(ctx)
	require.NoError(t, err)

	report, err := seeder.Seed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, len(activityCatalog), report.Skipped)

	docs, err := m.GetDocuments(ctx, activityTypesCollection)
	require.NoError(t, err)
	assert.Len(t, docs, len(activityCatalog))
}
