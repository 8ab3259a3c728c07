package database

import (
	"fmt"
	"log"

	"github.com/yukikurage/simple-task-app/internal/models"
	"gorm.io/gorm"
)

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	log.Println("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	log.Println("Database migrations completed")
	return nil
}
