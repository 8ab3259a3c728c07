package repository

import (
	"errors"

	"github.com/yukikurage/simple-task-app/internal/models"
)

// ErrDuplicateUsername is returned when the username is already taken.
var ErrDuplicateUsername = errors.New("user repository: username already exists")

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// ListByUser returns the tasks owned by a user in insertion order
	ListByUser(userID uint64) ([]models.Task, error)
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)
}
