package services

// Collection layout, shared with the mobile app's ingestion path:
// users/{uid}/daily_records/{rid}/activities/{aid}, aggregate documents in
// global_stats, and the fixed activity catalog in activity_types.
const (
	usersCollection         = "users"
	dailyRecordsCollection  = "daily_records"
	activitiesCollection    = "activities"
	globalStatsCollection   = "global_stats"
	activityTypesCollection = "activity_types"

	// GlobalStatsDocID is the rolling all-time aggregate document.
	GlobalStatsDocID = "water_consumption"
)

func dailyRecordsPath(userID string) string {
	return usersCollection + "/" + userID + "/" + dailyRecordsCollection
}

func dailyRecordPath(userID, recordID string) string {
	return dailyRecordsPath(userID) + "/" + recordID
}

func activitiesPath(userID, recordID string) string {
	return dailyRecordPath(userID, recordID) + "/" + activitiesCollection
}

func globalStatsPath(docID string) string {
	return globalStatsCollection + "/" + docID
}
