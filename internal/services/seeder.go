package services

import (
	"context"
	"fmt"
	"log"

	"github.com/JoseLuisBVaz/Water-Regsister/internal/store"
)

// ActivityType is one entry of the fixed catalog the app builds its
// activity picker from.
type ActivityType struct {
	Name          string
	LitersPerUnit float64
	Category      string
	Unit          string
	Icon          string
}

// activityCatalog is the reference catalog. Names are the app's display
// strings and double as the catalog's natural key.
var activityCatalog = []ActivityType{
	{Name: "Ducha", LitersPerUnit: 8.0, Category: "Higiene", Unit: "minutos", Icon: "🚿"},
	{Name: "Usar WC", LitersPerUnit: 6.0, Category: "Higiene", Unit: "veces", Icon: "🚽"},
	{Name: "Lavar platos a mano", LitersPerUnit: 20.0, Category: "Limpieza", Unit: "sesiones", Icon: "🍽️"},
	{Name: "Lavavajillas", LitersPerUnit: 15.0, Category: "Limpieza", Unit: "cargas", Icon: "🔧"},
	{Name: "Lavadora", LitersPerUnit: 70.0, Category: "Limpieza", Unit: "cargas", Icon: "👕"},
	{Name: "Regar plantas", LitersPerUnit: 10.0, Category: "Jardín", Unit: "sesiones", Icon: "🌱"},
	{Name: "Cepillar dientes", LitersPerUnit: 5.0, Category: "Higiene", Unit: "minutos", Icon: "🦷"},
	{Name: "Lavar manos", LitersPerUnit: 2.0, Category: "Higiene", Unit: "veces", Icon: "🧼"},
	{Name: "Cocinar", LitersPerUnit: 15.0, Category: "Cocina", Unit: "sesiones", Icon: "🍳"},
	{Name: "Lavar auto", LitersPerUnit: 150.0, Category: "Otros", Unit: "lavados", Icon: "🚗"},
}

// SeedReport summarizes one seeding run.
type SeedReport struct {
	Added   int
	Skipped int
}

// SeederService writes the activity-type catalog into the store, skipping
// entries that already exist. Safe to run repeatedly.
type SeederService struct {
	store store.Store
}

func NewSeederService(st store.Store) *SeederService {
	return &SeederService{store: st}
}

func (ss *SeederService) Seed(ctx context.Context) (*SeedReport, error) {
	report := &SeedReport{}
	for _, activityType := range activityCatalog {
		existing, err := ss.store.QueryEquals(ctx, activityTypesCollection, "name", activityType.Name)
		if err != nil {
			return report, fmt.Errorf("failed to check for existing type %q: %w", activityType.Name, err)
		}
		if len(existing) > 0 {
			report.Skipped++
			continue
		}

		fields := map[string]any{
			"name":          activityType.Name,
			"litersPerUnit": activityType.LitersPerUnit,
			"category":      activityType.Category,
			"unit":          activityType.Unit,
			"icon":          activityType.Icon,
		}
		if _, err := ss.store.AddDocument(ctx, activityTypesCollection, fields); err != nil {
			return report, fmt.Errorf("failed to add type %q: %w", activityType.Name, err)
		}
		report.Added++
		log.Printf("Seeded %s - %.1f L/%s", activityType.Name, activityType.LitersPerUnit, activityType.Unit)
	}
	return report, nil
}
