package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/services"
	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

type Config struct {
	ProjectID    string
	DatabaseName string
	RunTimeout   time.Duration
}

func loadConfig() *Config {
	// Load .env file for local development
	godotenv.Load()

	projectID := os.Getenv("GCP_PROJECT_ID")
	if projectID == "" {
		log.Fatal("GCP_PROJECT_ID environment variable is required")
	}

	databaseName := os.Getenv("FIRESTORE_DATABASE_NAME")
	if databaseName == "" {
		log.Fatal("FIRESTORE_DATABASE_NAME environment variable is required")
	}

	runTimeout := 10 * time.Minute
	if v := os.Getenv("RUN_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Fatalf("Invalid RUN_TIMEOUT: %v", err)
		}
		runTimeout = d
	}

	return &Config{
		ProjectID:    projectID,
		DatabaseName: databaseName,
		RunTimeout:   runTimeout,
	}
}

func main() {
	config := loadConfig()

	dbService, err := store.NewService(config.ProjectID, config.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to initialize database service: %v", err)
	}
	defer dbService.Close()

	resolver := services.NewResolverService(dbService)

	ctx, cancel := context.WithTimeout(context.Background(), config.RunTimeout)
	defer cancel()

	log.Println("Looking for duplicate daily records...")
	report, err := resolver.ResolveAll(ctx)
	if err != nil {
		log.Fatalf("Cleanup failed: %v", err)
	}

	log.Printf("Users processed: %d", report.UsersProcessed)
	log.Printf("Duplicate groups found: %d, merged: %d", report.DuplicateGroups, report.MergedGroups)
	log.Printf("Records merged away: %d, activities moved: %d", report.MergedRecords, report.MovedActivities)
	if report.UngroupedRecords > 0 {
		log.Printf("Records without a dateKey (left untouched): %d", report.UngroupedRecords)
	}

	if !report.Clean() {
		log.Printf("Incomplete: %d users failed, %d groups skipped; rerun to retry", report.FailedUsers, report.SkippedGroups)
		os.Exit(1)
	}
	log.Println("Cleanup completed")
}
