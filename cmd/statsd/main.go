package main

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/mux"
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
	reporter := services.NewReporterService(dbService)

	r := mux.NewRouter()

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Manual recalculation: full global pass plus today's day document.
	r.HandleFunc("/recalculate", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), config.RunTimeout)
		defer cancel()

		global, err := aggregator.Aggregate(ctx)
		if err != nil {
			log.Printf("Error aggregating global stats: %v", err)
			http.Error(w, "Aggregation failed", http.StatusInternalServerError)
			return
		}
		if err := publisher.PublishGlobal(ctx, global); err != nil {
			log.Printf("Error publishing global stats: %v", err)
			http.Error(w, "Publish failed", http.StatusInternalServerError)
			return
		}

		dateKey := services.DateKey(time.Now())
		today, err := aggregator.AggregateDay(ctx, dateKey)
		if err != nil {
			log.Printf("Error aggregating stats for %s: %v", dateKey, err)
			http.Error(w, "Aggregation failed", http.StatusInternalServerError)
			return
		}
		if err := publisher.PublishDay(ctx, today); err != nil {
			log.Printf("Error publishing stats for %s: %v", dateKey, err)
			http.Error(w, "Publish failed", http.StatusInternalServerError)
			return
		}

		log.Printf("Recalculated: %.1f L global, %.1f L today", global.TotalLiters, today.TotalLiters)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]*services.Snapshot{
			"global": global,
			"today":  today,
		})
	}).Methods("POST")

	r.HandleFunc("/stats/global", func(w http.ResponseWriter, r *http.Request) {
		serveStats(w, r, reporter, services.GlobalStatsDocID)
	}).Methods("GET")

	r.HandleFunc("/stats/{dateKey}", func(w http.ResponseWriter, r *http.Request) {
		serveStats(w, r, reporter, mux.Vars(r)["dateKey"])
	}).Methods("GET")

	port := os.Getenv("PORT")
	if port == "" {
		port = "8082"
	}

	log.Printf("Stats service starting on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, r))
}

func serveStats(w http.ResponseWriter, r *http.Request, reporter *services.ReporterService, docID string) {
	stats, err := reporter.GetStats(r.Context(), docID)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "No stats for "+docID, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Error reading stats %s: %v", docID, err)
		http.Error(w, "Error reading stats", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(stats)
}
