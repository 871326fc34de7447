package services

import (
	"context"
	"fmt"
	"time"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

// DateKey formats a time as the calendar-day grouping key used across the
// hierarchy and the per-day aggregate documents.
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// PublisherService writes aggregate snapshots to the well-known
// global_stats documents. Writes are merge-sets, never delete-then-create;
// republishing an identical snapshot changes nothing but lastUpdate.
//
// The rolling global document and the per-day documents are independent
// write paths, as they are for the mobile app that reads them. They can
// drift; the reporter makes the drift visible.
type PublisherService struct {
	store store.Store
}

func NewPublisherService(st store.Store) *PublisherService {
	return &PublisherService{store: st}
}

// PublishGlobal writes the rolling all-time document.
func (ps *PublisherService) PublishGlobal(ctx context.Context, snapshot *Snapshot) error {
	fields := map[string]any{
		"totalLiters":     snapshot.TotalLiters,
		"totalActivities": snapshot.TotalActivities,
		"usersCount":      snapshot.UsersCount,
		"lastUpdate":      ps.store.ServerTimestamp(),
		"lastCalculation": time.Now().UTC().Format(time.RFC3339),
	}
	if err := ps.store.SetDocument(ctx, globalStatsPath(GlobalStatsDocID), fields, true); err != nil {
		return fmt.Errorf("failed to publish global stats: %w", err)
	}
	return nil
}

// PublishDay writes the aggregate document for the snapshot's day, keyed by
// its dateKey. The day documents name their count activitiesCount where the
// rolling document says totalActivities; both names are the stored contract
// with the app and are kept as-is.
func (ps *PublisherService) PublishDay(ctx context.Context, snapshot *Snapshot) error {
	if snapshot.DateKey == "" {
		return fmt.Errorf("snapshot has no dateKey to publish under")
	}
	day, err := time.ParseInLocation("2006-01-02", snapshot.DateKey, time.UTC)
	if err != nil {
		return fmt.Errorf("invalid dateKey %q: %w", snapshot.DateKey, err)
	}

	fields := map[string]any{
		"totalLiters":     snapshot.TotalLiters,
		"activitiesCount": snapshot.TotalActivities,
		"usersCount":      snapshot.UsersCount,
		"dateKey":         snapshot.DateKey,
		"date":            day,
		"lastUpdate":      ps.store.ServerTimestamp(),
	}
	if err := ps.store.SetDocument(ctx, globalStatsPath(snapshot.DateKey), fields, true); err != nil {
		return fmt.Errorf("failed to publish stats for %s: %w", snapshot.DateKey, err)
	}
	return nil
}
