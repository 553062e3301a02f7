package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"studytracker/internal/models"
	"studytracker/internal/repository"
)

var (
	ErrPersonalTaskNotFound = errors.New("personal task not found")
)

// PersonalTaskService handles user-private task CRUD. Every operation is
// scoped to the caller's own rows; there is no cross-user visibility.
type PersonalTaskService struct {
	taskRepo repository.PersonalTaskRepository
}

// NewPersonalTaskService creates a new PersonalTaskService.
func NewPersonalTaskService(taskRepo repository.PersonalTaskRepository) *PersonalTaskService {
	return &PersonalTaskService{taskRepo: taskRepo}
}

// CreatePersonalTaskInput represents input for creating a personal task.
type CreatePersonalTaskInput struct {
	Title       string
	Description string
	UserID      uint64
}

// Create creates a personal task for the caller.
func (s *PersonalTaskService) Create(input CreatePersonalTaskInput) (*models.PersonalTask, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	task := &models.PersonalTask{
		Title:       input.Title,
		Description: input.Description,
		UserID:      input.UserID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create personal task: %w", err)
	}

	return task, nil
}

// List returns the caller's personal tasks.
func (s *PersonalTaskService) List(userID uint64) ([]models.PersonalTask, error) {
	tasks, err := s.taskRepo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list personal tasks: %w", err)
	}
	return tasks, nil
}

// Get returns one of the caller's personal tasks.
func (s *PersonalTaskService) Get(taskID, userID uint64) (*models.PersonalTask, error) {
	task, err := s.taskRepo.FindByIDAndUser(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPersonalTaskNotFound
		}
		return nil, fmt.Errorf("failed to find personal task: %w", err)
	}
	return task, nil
}

// UpdatePersonalTaskInput carries partial updates; nil fields keep their
// current value.
type UpdatePersonalTaskInput struct {
	Title       *string
	Description *string
}

// Update applies partial changes to one of the caller's personal tasks.
func (s *PersonalTaskService) Update(taskID, userID uint64, input UpdatePersonalTaskInput) (*models.PersonalTask, error) {
	task, err := s.Get(taskID, userID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, ErrTitleRequired
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update personal task: %w", err)
	}

	return task, nil
}

// SetDone sets the done flag on one of the caller's personal tasks.
func (s *PersonalTaskService) SetDone(taskID, userID uint64, done bool) (*models.PersonalTask, error) {
	task, err := s.Get(taskID, userID)
	if err != nil {
		return nil, err
	}

	task.IsDone = done
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update personal task: %w", err)
	}

	return task, nil
}

// Delete removes one of the caller's personal tasks.
func (s *PersonalTaskService) Delete(taskID, userID uint64) error {
	affected, err := s.taskRepo.Delete(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete personal task: %w", err)
	}
	if affected == 0 {
		return ErrPersonalTaskNotFound
	}
	return nil
}
