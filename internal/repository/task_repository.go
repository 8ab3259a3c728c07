package repository

import (
	"github.com/yukikurage/simple-task-app/internal/database"
	"github.com/yukikurage/simple-task-app/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit("User").Create(task).Error
}

// ListByUser returns the tasks owned by a user in insertion order
func (r *GormTaskRepository) ListByUser(userID uint64) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.Scopes(database.OwnedBy(userID), database.InsertionOrder).Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}
