// Command migrate applies the database schema explicitly. Production
// deployments run this once per release instead of relying on the automatic
// migration that only happens in development.
package main

import (
	"fmt"
	"log"

	"github.com/titouancv/mapinned/internal/config"
	"github.com/titouancv/mapinned/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Println("schema applied")
	return nil
}
