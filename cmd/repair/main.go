// Command repair recomputes the denormalized per-user counters from the
// rows that actually exist. Run it after manual data surgery or a suspected
// counter drift.
package main

import (
	"context"
	"log"

	"quill/internal/config"
	"quill/internal/database"
	"quill/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := service.NewCounts().RepairAll(context.Background(), db); err != nil {
		log.Fatalf("❌ Counter repair failed: %v", err)
	}

	log.Println("✓ user counters repaired")
}
