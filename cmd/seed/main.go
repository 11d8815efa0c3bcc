package main

import (
	"errors"
	"log"
	"os"

	"notekeeper-be/internal/config"
	"notekeeper-be/internal/model"
	"notekeeper-be/internal/service"
	"notekeeper-be/pkg/database"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Seeds a staff account for the admin note listing. An existing account with
// the same username is promoted and gets the new password.
func main() {
	cfg := config.Load()

	username := service.NormalizeUsername(os.Getenv("SEED_ADMIN_USERNAME"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("Error: SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD must be set")
	}

	db, err := database.NewGormDB(cfg.Database.Driver, cfg.Database.Connection, logger.Warn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Error: hashing password: %v", err)
	}

	var existing model.User
	err = db.Where("username = ?", username).First(&existing).Error
	switch {
	case err == nil:
		if err := db.Model(&existing).Updates(map[string]interface{}{
			"password_hash": string(hash),
			"is_staff":      true,
			"is_active":     true,
		}).Error; err != nil {
			log.Fatalf("Error: promoting '%s': %v", username, err)
		}
		log.Printf("Promoted existing user '%s' to staff", username)
	case errors.Is(err, gorm.ErrRecordNotFound):
		user := model.User{
			Id:           uuid.New(),
			Username:     username,
			PasswordHash: string(hash),
			IsActive:     true,
			IsStaff:      true,
		}
		if err := db.Create(&user).Error; err != nil {
			log.Fatalf("Error: creating '%s': %v", username, err)
		}
		log.Printf("Created staff user '%s'", username)
	default:
		log.Fatalf("Error: looking up '%s': %v", username, err)
	}
}
