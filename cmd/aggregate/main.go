package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/services"
	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

type Config struct {
	ProjectID    string
	DatabaseName string
	RunTimeout   time.Duration
	Concurrency  int
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

	concurrency := 4
	if v := os.Getenv("WALK_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			log.Fatalf("Invalid WALK_CONCURRENCY: %v", err)
		}
		concurrency = n
	}

	return &Config{
		ProjectID:    projectID,
		DatabaseName: databaseName,
		RunTimeout:   runTimeout,
		Concurrency:  concurrency,
	}
}

func main() {
	config := loadConfig()

	dbService, err := store.NewService(config.ProjectID, config.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to initialize database service: %v", err)
	}
	defer dbService.Close()

	aggregator := services.NewAggregatorService(dbService, config.Concurrency)
	publisher := services.NewPublisherService(dbService)

	ctx, cancel := context.WithTimeout(context.Background(), config.RunTimeout)
	defer cancel()

	log.Println("Calculating global consumption...")
	snapshot, err := aggregator.Aggregate(ctx)
	if err != nil {
		log.Fatalf("Aggregation failed, nothing published: %v", err)
	}

	log.Printf("Users found: %d", snapshot.UsersCount)
	log.Printf("Total activities: %d", snapshot.TotalActivities)
	log.Printf("Total calculated: %.1f liters", snapshot.TotalLiters)

	if err := publisher.PublishGlobal(ctx, snapshot); err != nil {
		log.Fatalf("Failed to publish global stats: %v", err)
	}
	log.Printf("Global consumption updated: %.1f L", snapshot.TotalLiters)
}
