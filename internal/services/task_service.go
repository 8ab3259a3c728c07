package services

import (
	"fmt"

	"github.com/yukikurage/simple-task-app/internal/models"
	"github.com/yukikurage/simple-task-app/internal/repository"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// AddTaskInput represents input for creating a task
type AddTaskInput struct {
	UserID uint64
	Title  string
}

// AddTask creates a task owned by the given user. Titles are stored as given,
// empty ones included.
func (s *TaskService) AddTask(input AddTaskInput) (*models.Task, error) {
	task := &models.Task{
		Title:  input.Title,
		UserID: input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the user's tasks in creation order
func (s *TaskService) ListTasks(userID uint64) ([]models.Task, error) {
	tasks, err := s.taskRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}
