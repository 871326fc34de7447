package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

func seedStatsDoc(t *testing.T, m *store.Memory, docID string, fields map[string]any) {
	t.Helper()
	require.NoError(t, m.SetDocument(context.Background(), globalStatsPath(docID), fields, false))
}

func TestGlobalStatsReport(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	seedStatsDoc(t, m, GlobalStatsDocID, map[string]any{
		"totalLiters": float64(91), "totalActivities": int64(3), "usersCount": int64(2),
	})
	seedStatsDoc(t, m, "2024-01-01", map[string]any{
		"totalLiters": int64(76), "activitiesCount": int64(2), "usersCount": int64(1), "dateKey": "2024-01-01",
	})

	report, err := NewReporterService(m).GlobalStatsReport(ctx)
	require.NoError(t, err)

	require.Len(t, report.Docs, 2)
	assert.Equal(t, float64(167), report.TotalLiters)

	byID := map[string]StatsDoc{}
	for _, doc := range report.Docs {
		byID[doc.ID] = doc
	}
	assert.Equal(t, 3, byID[GlobalStatsDocID].ActivitiesCount)
	assert.Equal(t, "2024-01-01", byID["2024-01-01"].DateKey)
	assert.Equal(t, 2, byID["2024-01-01"].ActivitiesCount)
}

func TestGetStatsCachesReads(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	reporter := NewReporterService(m)

	seedStatsDoc(t, m, "2024-01-01", map[string]any{"totalLiters": float64(10)})

	first, err := reporter.GetStats(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, float64(10), first.TotalLiters)

	// A fresh cache entry hides the write until it expires.
	seedStatsDoc(t, m, "2024-01-01", map[string]any{"totalLiters": float64(99)})
	cached, err := reporter.GetStats(ctx, "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, float64(10), cached.TotalLiters)
}

func TestGetStatsUnknownDoc(t *testing.T) {
	_, err := NewReporterService(store.NewMemory()).GetStats(context.Background(), "2030-01-01")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestRemoveLegacyGlobalDoc(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	reporter := NewReporterService(m)

	seedStatsDoc(t, m, GlobalStatsDocID, map[string]any{"totalLiters": float64(91)})
	seedStatsDoc(t, m, "2024-01-01", map[string]any{"totalLiters": float64(76), "dateKey": "2024-01-01"})

	// Warm the cache so the removal also has to invalidate it.
	_, err := reporter.GetStats(ctx, GlobalStatsDocID)
	require.NoError(t, err)

	report, err := reporter.RemoveLegacyGlobalDoc(ctx)
	require.NoError(t, err)

	require.Len(t, report.Docs, 1)
	assert.Equal(t, "2024-01-01", report.Docs[0].ID)
	assert.Equal(t, float64(76), report.TotalLiters)

	_, err = reporter.GetStats(ctx, GlobalStatsDocID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
