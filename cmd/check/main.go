package main

import (
	"context"
	"flag"
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

	return &Config{
		ProjectID:    projectID,
		DatabaseName: databaseName,
	}
}

func main() {
	removeLegacy := flag.Bool("remove-legacy", false, "delete the rolling water_consumption document before reporting")
	flag.Parse()

	config := loadConfig()

	dbService, err := store.NewService(config.ProjectID, config.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to initialize database service: %v", err)
	}
	defer dbService.Close()

	reporter := services.NewReporterService(dbService)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var report *services.StatsReport
	if *removeLegacy {
		log.Println("Removing legacy global document...")
		report, err = reporter.RemoveLegacyGlobalDoc(ctx)
	} else {
		report, err = reporter.GlobalStatsReport(ctx)
	}
	if err != nil {
		log.Fatalf("Failed to read global stats: %v", err)
	}

	log.Printf("Documents in global_stats: %d", len(report.Docs))
	for _, doc := range report.Docs {
		dateKey := doc.DateKey
		if dateKey == "" {
			dateKey = "N/A"
		}
		log.Printf("  %s: %.1f L (dateKey: %s, lastUpdate: %s)", doc.ID, doc.TotalLiters, dateKey, doc.LastUpdate)
	}
	log.Printf("Sum across documents: %.1f L", report.TotalLiters)
}
