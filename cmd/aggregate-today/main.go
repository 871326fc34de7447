package main

import (
	"context"
	"flag"
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
	date := flag.String("date", "", "day to aggregate as YYYY-MM-DD (default: today)")
	flag.Parse()

	config := loadConfig()

	dateKey := *date
	if dateKey == "" {
		dateKey = services.DateKey(time.Now())
	}

	dbService, err := store.NewService(config.ProjectID, config.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to initialize database service: %v", err)
	}
	defer dbService.Close()

	aggregator := services.NewAggregatorService(dbService, config.Concurrency)
	publisher := services.NewPublisherService(dbService)

	ctx, cancel := context.WithTimeout(context.Background(), config.RunTimeout)
	defer cancel()

	log.Printf("Calculating global consumption for %s...", dateKey)
	snapshot, err := aggregator.AggregateDay(ctx, dateKey)
	if err != nil {
		log.Fatalf("Aggregation failed, nothing published: %v", err)
	}

	log.Printf("Users found: %d", snapshot.UsersCount)
	log.Printf("Activities on %s: %d", dateKey, snapshot.TotalActivities)
	log.Printf("Consumption on %s: %.1f L", dateKey, snapshot.TotalLiters)

	if err := publisher.PublishDay(ctx, snapshot); err != nil {
		log.Fatalf("Failed to publish stats for %s: %v", dateKey, err)
	}
	log.Printf("Daily consumption for %s updated", dateKey)
}
