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
	config := loadConfig()

	dbService, err := store.NewService(config.ProjectID, config.DatabaseName)
	if err != nil {
		log.Fatalf("Failed to initialize database service: %v", err)
	}
	defer dbService.Close()

	seeder := services.NewSeederService(dbService)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log.Println("Seeding activity types...")
	report, err := seeder.Seed(ctx)
	if err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
	log.Printf("Done: %d added, %d already present", report.Added, report.Skipped)
}
