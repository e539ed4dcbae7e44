package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"task-manager-backend/internal/domain"
	"task-manager-backend/internal/repository"

	"gorm.io/gorm"
)

// Sentinel errors the HTTP layer maps to status codes.
var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrNotTaskOwner  = errors.New("task belongs to another user")
	ErrTitleRequired = errors.New("title cannot be empty")
)

// TaskRequest holds the caller-supplied fields for create and update.
// The owner is never part of the request; it always comes from the
// authenticated identity.
type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// TaskResponse is the representation of a task returned by the service.
type TaskResponse struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Completed   bool       `json:"completed"`
}

// TaskService enforces the ownership and validation rules for tasks. Every
// operation takes the authenticated owner explicitly; there is no ambient
// current-user state.
type TaskService interface {
	// ListTasks returns all tasks owned by ownerID in insertion order.
	ListTasks(ctx context.Context, ownerID uint) ([]TaskResponse, error)

	// CreateTask creates a task owned by ownerID. The completed flag
	// starts false.
	CreateTask(ctx context.Context, ownerID uint, req TaskRequest) (*TaskResponse, error)

	// UpdateTask replaces title, description and due date of an owned
	// task. The completed flag is left untouched.
	UpdateTask(ctx context.Context, ownerID uint, taskID uint, req TaskRequest) (*TaskResponse, error)

	// DeleteTask permanently removes an owned task.
	DeleteTask(ctx context.Context, ownerID uint, taskID uint) error
}

type taskService struct {
	repo repository.TaskRepository
}

// NewTaskService creates a task service backed by the given repository.
func NewTaskService(repo repository.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

func (s *taskService) ListTasks(ctx context.Context, ownerID uint) ([]TaskResponse, error) {
	tasks, err := s.repo.FindByOwner(ownerID)
	if err != nil {
		log.Printf("Error fetching tasks for user %d: %v", ownerID, err)
		return nil, errors.New("failed to retrieve tasks")
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, task := range tasks {
		responses = append(responses, toResponse(&task))
	}
	return responses, nil
}

func (s *taskService) CreateTask(ctx context.Context, ownerID uint, req TaskRequest) (*TaskResponse, error) {
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	newTask := &domain.Task{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Completed:   false,
		UserID:      ownerID,
	}

	if err := s.repo.Create(newTask); err != nil {
		log.Printf("Error creating task for user %d: %v", ownerID, err)
		return nil, errors.New("failed to create task")
	}

	response := toResponse(newTask)
	return &response, nil
}

func (s *taskService) UpdateTask(ctx context.Context, ownerID uint, taskID uint, req TaskRequest) (*TaskResponse, error) {
	// Existence is checked before ownership, and ownership before any
	// mutation.
	task, err := s.findOwned(ownerID, taskID)
	if err != nil {
		return nil, err
	}
	if req.Title == "" {
		return nil, ErrTitleRequired
	}

	task.Title = req.Title
	task.Description = req.Description
	task.DueDate = req.DueDate

	if err := s.repo.Update(task); err != nil {
		log.Printf("Error updating task %d: %v", taskID, err)
		return nil, errors.New("failed to update task")
	}

	response := toResponse(task)
	return &response, nil
}

func (s *taskService) DeleteTask(ctx context.Context, ownerID uint, taskID uint) error {
	if _, err := s.findOwned(ownerID, taskID); err != nil {
		return err
	}

	if err := s.repo.Delete(taskID); err != nil {
		log.Printf("Error deleting task %d: %v", taskID, err)
		return errors.New("failed to delete task")
	}
	return nil
}

// findOwned loads a task and rejects callers that do not own it.
func (s *taskService) findOwned(ownerID, taskID uint) (*domain.Task, error) {
	task, err := s.repo.FindByID(taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task %d: %w", taskID, ErrTaskNotFound)
		}
		log.Printf("Error fetching task %d: %v", taskID, err)
		return nil, errors.New("failed to retrieve task")
	}
	if task.UserID != ownerID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

func toResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Completed:   task.Completed,
	}
}
