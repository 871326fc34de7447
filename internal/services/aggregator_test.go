package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

func TestAggregateGlobal(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// One user with three activities over two days, one user with nothing.
	seedUser(t, m, "u1")
	seedRecord(t, m, "u1", "r1", "2024-01-01")
	seedActivity(t, m, "u1", "r1", "Usar WC", float64(6))
	seedActivity(t, m, "u1", "r1", "Lavadora", int64(70))
	seedRecord(t, m, "u1", "r2", "2024-01-02")
	seedActivity(t, m, "u1", "r2", "Lavavajillas", float64(15))
	seedUser(t, m, "u2")

	snapshot, err := NewAggregatorService(m, 2).Aggregate(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.UsersCount)
	assert.Equal(t, 3, snapshot.TotalActivities)
	assert.Equal(t, float64(91), snapshot.TotalLiters)
	assert.Empty(t, snapshot.DateKey)
}

func TestAggregateCountsUserKnownOnlyThroughRecords(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// The user document itself was never written; the user exists only
	// through its daily_records subcollection, as sign-in flows produce.
	seedRecord(t, m, "ghost", "r1", "2024-01-01")
	seedActivity(t, m, "ghost", "r1", "Ducha", float64(8))

	snapshot, err := NewAggregatorService(m, 1).Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.UsersCount)
	assert.Equal(t, float64(8), snapshot.TotalLiters)
}

func TestAggregateRecordWithNoActivities(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	seedUser(t, m, "u1")
	seedRecord(t, m, "u1", "r1", "2024-01-01")

	snapshot, err := NewAggregatorService(m, 1).Aggregate(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.UsersCount)
	assert.Equal(t, 0, snapshot.TotalActivities)
	assert.Equal(t, float64(0), snapshot.TotalLiters)
}

func TestAggregateDayFiltersByDateKey(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	seedUser(t, m, "u1")
	seedRecord(t, m, "u1", "r1", "2024-01-01")
	seedActivity(t, m, "u1", "r1", "Usar WC", float64(6))
	seedRecord(t, m, "u1", "r2", "2024-01-02")
	seedActivity(t, m, "u1", "r2", "Lavadora", float64(70))

	// u2 has no record for the requested day: skipped silently, still
	// counted as a user.
	seedUser(t, m, "u2")
	seedRecord(t, m, "u2", "r1", "2024-01-02")
	seedActivity(t, m, "u2", "r1", "Ducha", float64(8))

	snapshot, err := NewAggregatorService(m, 2).AggregateDay(ctx, "2024-01-01")
	require.NoError(t, err)

	assert.Equal(t, "2024-01-01", snapshot.DateKey)
	assert.Equal(t, 2, snapshot.UsersCount)
	assert.Equal(t, 1, snapshot.TotalActivities)
	assert.Equal(t, float64(6), snapshot.TotalLiters)
}

func TestAggregateDayRequiresDateKey(t *testing.T) {
	_, err := NewAggregatorService(store.NewMemory(), 1).AggregateDay(context.Background(), "")
	assert.Error(t, err)
}

func TestAggregateAbortsOnReadFailure(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	seedUser(t, m, "u1")
	seedRecord(t, m, "u1", "r1", "2024-01-01")
	seedActivity(t, m, "u1", "r1", "Usar WC", float64(6))

	failing := &failingStore{Store: m, failOn: activitiesCollection}
	snapshot, err := NewAggregatorService(failing, 2).Aggregate(ctx)
	require.Error(t, err)
	assert.Nil(t, snapshot, "a failed traversal must not yield a partial snapshot")
}
