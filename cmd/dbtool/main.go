package main

import (
	"bus-ticket-service/internal/adapters/repositories"
	"bus-ticket-service/internal/config"
	"bus-ticket-service/internal/platform/db"
	"bus-ticket-service/internal/services"
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dbtool initializes the schema, seeds timetable data, and optionally runs
// a one-shot horizon expansion so a fresh database has sellable trips.
func main() {
	expandDays := flag.Int("expand", 0, "materialize trips this many days ahead after seeding (0 skips)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	database, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer database.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitSchema(ctx, database); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	seedPath := config.Get("SEED_PATH", "data/seeds/timetable.json")
	log.Printf("Seeding database from %s...", seedPath)
	if err := repositories.SeedFromJSON(ctx, database, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")

	if *expandDays > 0 {
		expander := &services.Expander{
			Templates: repositories.NewPostgresTemplateRepository(database),
			Routes:    repositories.NewPostgresRouteRepository(database),
			Vehicles:  repositories.NewPostgresVehicleRepository(database),
			Trips:     repositories.NewPostgresTripRepository(database),
		}
		from := time.Now()
		to := from.AddDate(0, 0, *expandDays)
		created, err := expander.ExpandHorizon(ctx, from, to)
		if err != nil {
			log.Fatalf("expansion failed: %v", err)
		}
		log.Printf("Expansion complete trips_created=%d days=%d", created, *expandDays)
	}
}
