// Command main runs the database seeder for Roamly.
package main

import (
	"flag"
	"log"

	"roamly/internal/config"
	"roamly/internal/database"
	"roamly/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	numAdventures := flag.Int("adventures", 80, "Number of adventures to create")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" || cfg.Env == "prod" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}

	adventures, err := s.SeedAdventures(users, *numAdventures)
	if err != nil {
		log.Fatalf("Adventure seeding failed: %v", err)
	}

	if err := s.SeedEngagement(users, adventures); err != nil {
		log.Fatalf("Engagement seeding failed: %v", err)
	}

	log.Printf("All done. Seeded accounts share the password %q", seed.Password)
}
