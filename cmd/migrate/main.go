package main

import (
	"log"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/database"

	"gorm.io/gorm/logger"
)

func main() {
	// 1. Load Environment Variables
	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, logger.Info)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	// 3. Extensions (postgres only)
	if cfg.Database.Driver == database.DriverPostgres || cfg.Database.Driver == "" {
		log.Println("Step 1: Setting up Extensions...")
		if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
			log.Printf("Warn: Failed to execute setup SQL: %v. Continuing...", err)
		}
	}

	// 4. AutoMigrate All Models
	log.Printf("Step 2: Running AutoMigrate for %d tables...", len(model.All()))
	if err := model.Migrate(db); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
