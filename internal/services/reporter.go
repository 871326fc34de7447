package services

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

// StatsDoc is one global_stats document as stored.
type StatsDoc struct {
	ID              string    `json:"id"`
	DateKey         string    `json:"dateKey,omitempty"`
	TotalLiters     float64   `json:"totalLiters"`
	ActivitiesCount int       `json:"activitiesCount"`
	UsersCount      int       `json:"usersCount"`
	LastUpdate      time.Time `json:"lastUpdate"`
}

// StatsReport lists every global_stats document plus the sum of their
// liters. The rolling document and the per-day documents are maintained
// independently, so the sum is what makes drift between them observable.
type StatsReport struct {
	Docs        []StatsDoc `json:"docs"`
	TotalLiters float64    `json:"totalLiters"`
}

// ReporterService reads global_stats. Point reads go through a short
// expirable cache since statsd serves them on every request.
type ReporterService struct {
	store store.Store
	cache *expirable.LRU[string, *StatsDoc]
}

func NewReporterService(st store.Store) *ReporterService {
	cache := expirable.NewLRU[string, *StatsDoc](256, nil, time.Minute)

	return &ReporterService{
		store: st,
		cache: cache,
	}
}

// GlobalStatsReport reads every aggregate document.
func (rs *ReporterService) GlobalStatsReport(ctx context.Context) (*StatsReport, error) {
	docs, err := rs.store.GetDocuments(ctx, globalStatsCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to read global stats: %w", err)
	}

	report := &StatsReport{}
	for _, doc := range docs {
		stats := statsFromDocument(doc)
		report.Docs = append(report.Docs, stats)
		report.TotalLiters += stats.TotalLiters
	}
	return report, nil
}

// GetStats returns one aggregate document by ID, from cache when fresh.
// Returns store.ErrNotFound for unknown IDs.
func (rs *ReporterService) GetStats(ctx context.Context, docID string) (*StatsDoc, error) {
	if cached, ok := rs.cache.Get(docID); ok {
		return cached, nil
	}

	doc, err := rs.store.GetDocument(ctx, globalStatsPath(docID))
	if err != nil {
		return nil, err
	}
	stats := statsFromDocument(doc)
	rs.cache.Add(docID, &stats)
	return &stats, nil
}

// RemoveLegacyGlobalDoc deletes the rolling water_consumption document and
// returns a report of what remains. Operational escape hatch for when the
// rolling total has drifted from the per-day documents.
func (rs *ReporterService) RemoveLegacyGlobalDoc(ctx context.Context) (*StatsReport, error) {
	if err := rs.store.DeleteDocument(ctx, globalStatsPath(GlobalStatsDocID)); err != nil {
		return nil, fmt.Errorf("failed to delete legacy global doc: %w", err)
	}
	rs.cache.Remove(GlobalStatsDocID)
	return rs.GlobalStatsReport(ctx)
}

func statsFromDocument(doc store.Document) StatsDoc {
	stats := StatsDoc{
		ID:          doc.ID,
		TotalLiters: numericField(doc.Fields, "totalLiters"),
		UsersCount:  int(numericField(doc.Fields, "usersCount")),
	}
	stats.DateKey, _ = doc.Fields["dateKey"].(string)
	stats.LastUpdate, _ = doc.Fields["lastUpdate"].(time.Time)

	// The rolling document and the day documents name the count differently.
	stats.ActivitiesCount = int(numericField(doc.Fields, "activitiesCount"))
	if stats.ActivitiesCount == 0 {
		stats.ActivitiesCount = int(numericField(doc.Fields, "totalActivities"))
	}
	return stats
}
