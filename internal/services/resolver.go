package services

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

// ResolveReport summarizes one resolver run.
type ResolveReport struct {
	UsersProcessed   int
	FailedUsers      int
	DuplicateGroups  int // date groups found with more than one record
	MergedGroups     int
	SkippedGroups    int // groups abandoned after a store failure
	MergedRecords    int // records deleted after their activities moved
	MovedActivities  int
	UngroupedRecords int // records without a dateKey, never merged
}

func (r *ResolveReport) add(other *ResolveReport) {
	r.UsersProcessed += other.UsersProcessed
	r.FailedUsers += other.FailedUsers
	r.DuplicateGroups += other.DuplicateGroups
	r.MergedGroups += other.MergedGroups
	r.SkippedGroups += other.SkippedGroups
	r.MergedRecords += other.MergedRecords
	r.MovedActivities += other.MovedActivities
	r.UngroupedRecords += other.UngroupedRecords
}

// Clean reports whether the run completed every group it found.
func (r *ResolveReport) Clean() bool {
	return r.FailedUsers == 0 && r.SkippedGroups == 0
}

// ResolverService restores the invariant of at most one daily record per
// (user, dateKey) and recomputes the cached totals of the record it keeps.
// A run over an already-deduplicated user performs no writes.
type ResolverService struct {
	store store.Store
}

func NewResolverService(st store.Store) *ResolverService {
	return &ResolverService{store: st}
}

// ResolveAll runs ResolveUser over every user. A user whose records cannot
// be read is logged and counted as failed; the remaining users still run.
func (rs *ResolverService) ResolveAll(ctx context.Context) (*ResolveReport, error) {
	userIDs, err := rs.store.ListChildIDs(ctx, usersCollection)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	report := &ResolveReport{}
	for _, userID := range userIDs {
		userReport, err := rs.ResolveUser(ctx, userID)
		if err != nil {
			log.Printf("Error resolving duplicates for user %s: %v", userID, err)
			report.FailedUsers++
			continue
		}
		report.add(userReport)
	}
	return report, nil
}

// ResolveUser deduplicates one user's daily records. Records without a
// dateKey have an ambiguous grouping key and are never merged, only
// reported.
func (rs *ResolverService) ResolveUser(ctx context.Context, userID string) (*ResolveReport, error) {
	records, err := rs.store.GetDocuments(ctx, dailyRecordsPath(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to get daily records for user %s: %w", userID, err)
	}

	report := &ResolveReport{UsersProcessed: 1}

	groups := make(map[string][]store.Document)
	var dateKeys []string
	for _, record := range records {
		dateKey, _ := record.Fields["dateKey"].(string)
		if dateKey == "" {
			report.UngroupedRecords++
			continue
		}
		if _, seen := groups[dateKey]; !seen {
			dateKeys = append(dateKeys, dateKey)
		}
		groups[dateKey] = append(groups[dateKey], record)
	}

	for _, dateKey := range dateKeys {
		group := groups[dateKey]
		if len(group) < 2 {
			continue
		}
		report.DuplicateGroups++
		log.Printf("User %s: %d records for %s, merging", userID, len(group), dateKey)

		if err := rs.mergeGroup(ctx, userID, group, report); err != nil {
			// A vanished record or a failed write abandons this group and
			// leaves it for the next run; other groups still proceed. The
			// store stays safe: nothing is deleted before it was copied.
			log.Printf("Skipping group %s for user %s: %v", dateKey, userID, err)
			report.SkippedGroups++
			continue
		}
		report.MergedGroups++
	}

	if report.UngroupedRecords > 0 {
		log.Printf("User %s: %d records without a dateKey left untouched", userID, report.UngroupedRecords)
	}
	return report, nil
}

// mergeGroup merges every record of one date group into the canonical one.
// The per-record order is fixed: copy each activity, delete the original,
// then delete the emptied record. Reordering could destroy activities that
// were never copied; with this order a failure mid-group can only leave an
// activity duplicated, which the recomputed totals absorb on the next run.
func (rs *ResolverService) mergeGroup(ctx context.Context, userID string, group []store.Document, report *ResolveReport) error {
	// Canonical pick is the lexicographically smallest document ID, a
	// stable choice that does not depend on store enumeration order.
	sort.Slice(group, func(i, j int) bool { return group[i].ID < group[j].ID })
	canonical := group[0]

	for _, record := range group[1:] {
		activities, err := rs.store.GetDocuments(ctx, activitiesPath(userID, record.ID))
		if err != nil {
			return fmt.Errorf("failed to get activities of record %s: %w", record.ID, err)
		}
		for _, activity := range activities {
			if _, err := rs.store.AddDocument(ctx, activitiesPath(userID, canonical.ID), activity.Fields); err != nil {
				return fmt.Errorf("failed to copy activity %s: %w", activity.ID, err)
			}
			if err := rs.store.DeleteDocument(ctx, activitiesPath(userID, record.ID)+"/"+activity.ID); err != nil {
				return fmt.Errorf("failed to delete activity %s: %w", activity.ID, err)
			}
			report.MovedActivities++
		}
		if err := rs.store.DeleteDocument(ctx, dailyRecordPath(userID, record.ID)); err != nil {
			return fmt.Errorf("failed to delete record %s: %w", record.ID, err)
		}
		report.MergedRecords++
		log.Printf("User %s: merged record %s into %s (%d activities moved)",
			userID, record.ID, canonical.ID, len(activities))
	}

	// Recompute the canonical record's cached totals from what is actually
	// stored now, and merge just those two fields.
	activities, err := rs.store.GetDocuments(ctx, activitiesPath(userID, canonical.ID))
	if err != nil {
		return fmt.Errorf("failed to re-read activities of record %s: %w", canonical.ID, err)
	}
	liters, count := SumActivities(activities)
	err = rs.store.SetDocument(ctx, dailyRecordPath(userID, canonical.ID), map[string]any{
		"totalLiters":     liters,
		"activitiesCount": count,
	}, true)
	if err != nil {
		return fmt.Errorf("failed to update totals of record %s: %w", canonical.ID, err)
	}

	log.Printf("User %s: kept %s with %.1f L across %d activities", userID, canonical.ID, liters, count)
	return nil
}
