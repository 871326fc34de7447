package services

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

// Snapshot is the immutable result of one full traversal. It is handed to
// the publisher as a whole; a traversal that fails produces no snapshot at
// all, never a partial one.
type Snapshot struct {
	TotalLiters     float64 `json:"totalLiters"`
	TotalActivities int     `json:"totalActivities"`
	UsersCount      int     `json:"usersCount"`
	DateKey         string  `json:"dateKey,omitempty"`
}

// AggregatorService walks the users/daily_records/activities hierarchy and
// totals consumption, either over all history or scoped to one calendar
// day. The walk is an unpaginated O(users x records x activities) read
// fan-out; fine at current data sizes, and the first thing to revisit if
// the user base grows.
type AggregatorService struct {
	store       store.Store
	concurrency int
}

// NewAggregatorService creates an aggregator. concurrency bounds the
// per-user fan-out; values below 1 mean sequential.
func NewAggregatorService(st store.Store, concurrency int) *AggregatorService {
	if concurrency < 1 {
		concurrency = 1
	}
	return &AggregatorService{store: st, concurrency: concurrency}
}

// Aggregate traverses every user's full history and returns the global
// snapshot.
func (as *AggregatorService) Aggregate(ctx context.Context) (*Snapshot, error) {
	return as.walk(ctx, "")
}

// AggregateDay traverses only the daily records matching dateKey. Users
// without a record for that day are skipped silently but still counted in
// UsersCount.
func (as *AggregatorService) AggregateDay(ctx context.Context, dateKey string) (*Snapshot, error) {
	if dateKey == "" {
		return nil, fmt.Errorf("dateKey is required for a day-scoped aggregation")
	}
	return as.walk(ctx, dateKey)
}

type userTotals struct {
	liters     float64
	activities int
}

func (as *AggregatorService) walk(ctx context.Context, dateKey string) (*Snapshot, error) {
	userIDs, err := as.store.ListChildIDs(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	// Users are independent, so their subtrees are read in parallel under a
	// limit that respects the store's rate limits. Partials land in a
	// per-user slot and are summed after the group finishes, so the result
	// does not depend on scheduling and nothing leaks out of a failed walk.
	totals := make([]userTotals, len(userIDs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(as.concurrency)
	for i, userID := range userIDs {
		i, userID := i, userID
		g.Go(func() error {
			t, err := as.walkUser(gctx, userID, dateKey)
			if err != nil {
				return err
			}
			totals[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snapshot := &Snapshot{UsersCount: len(userIDs), DateKey: dateKey}
	for _, t := range totals {
		snapshot.TotalLiters += t.liters
		snapshot.TotalActivities += t.activities
	}
	return snapshot, nil
}

func (as *AggregatorService) walkUser(ctx context.Context, userID, dateKey string) (userTotals, error) {
	var records []store.Document
	var err error
	if dateKey == "" {
		records, err = as.store.GetDocuments(ctx, dailyRecordsPath(userID))
	} else {
		records, err = as.store.QueryEquals(ctx, dailyRecordsPath(userID), "dateKey", dateKey)
	}
	if err != nil {
		return userTotals{}, fmt.Errorf("failed to get daily records for user %s: %w", userID, err)
	}

	var t userTotals
	for _, record := range records {
		activities, err := as.store.GetDocuments(ctx, activitiesPath(userID, record.ID))
		if err != nil {
			return userTotals{}, fmt.Errorf("failed to get activities for %s/%s: %w", userID, record.ID, err)
		}
		liters, count := SumActivities(activities)
		t.liters += liters
		t.activities += count
	}
	return t, nil
}
