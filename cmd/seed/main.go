// Command main runs the database seeder for Mapinned.
package main

import (
	"flag"
	"log"

	"github.com/titouancv/mapinned/internal/config"
	"github.com/titouancv/mapinned/internal/database"
	"github.com/titouancv/mapinned/internal/seed"
)

func main() {
	// Parse command line flags
	numUsers := flag.Int("users", 10, "Number of users to create")
	numPhotos := flag.Int("photos", 60, "Number of photos to create")
	commentsPerPhoto := flag.Int("comments", 4, "Max comments per photo")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d photos, clean=%v\n", *numUsers, *numPhotos, *shouldClean)

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run seeder
	s := seed.NewSeeder(db)

	if *shouldClean {
		if err := s.ClearAll(); err != nil {
			log.Fatalf("❌ Cleanup failed: %v", err)
		}
	}

	users, err := s.SeedUsers(*numUsers)
	if err != nil {
		log.Fatalf("❌ User seeding failed: %v", err)
	}

	photos, err := s.SeedPhotos(users, *numPhotos)
	if err != nil {
		log.Fatalf("❌ Photo seeding failed: %v", err)
	}

	if err := s.SeedComments(users, photos, *commentsPerPhoto); err != nil {
		log.Fatalf("❌ Comment seeding failed: %v", err)
	}

	log.Println("✨ All done! Your map is now populated with demo pins.")
}
