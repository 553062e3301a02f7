package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"studytracker/internal/models"
	"studytracker/internal/repository"
)

var (
	ErrTaskNotFound   = errors.New("task not found")
	ErrStatusNotFound = errors.New("no task status exists for this user")
	ErrTitleRequired  = errors.New("title is required")
)

// TaskService handles shared-task business logic: the fan-out on creation
// and the per-member status reads and writes.
type TaskService struct {
	taskRepo    repository.SubjectTaskRepository
	subjectRepo repository.SubjectRepository
	subjects    *SubjectService

	// editOwnerOnly restricts update/delete "for all" to the subject owner.
	editOwnerOnly bool
}

// NewTaskService creates a new TaskService.
func NewTaskService(taskRepo repository.SubjectTaskRepository, subjectRepo repository.SubjectRepository, subjects *SubjectService, editOwnerOnly bool) *TaskService {
	return &TaskService{
		taskRepo:      taskRepo,
		subjectRepo:   subjectRepo,
		subjects:      subjects,
		editOwnerOnly: editOwnerOnly,
	}
}

// CreateTaskInput represents input for creating a shared task.
type CreateTaskInput struct {
	SubjectID   uint64
	CallerID    uint64
	Title       string
	Description string
	Deadline    *time.Time
}

// CreateTask creates a shared task and fans out one status row per current
// member of the subject, atomically. The subject owner always receives a
// row, so a subject without subscribers yields exactly one status.
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.SubjectTask, error) {
	if input.Title == "" {
		return nil, ErrTitleRequired
	}

	access, err := s.subjects.ResolveAccess(input.SubjectID, input.CallerID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember() {
		return nil, ErrNotSubjectMember
	}

	subject, err := s.subjectRepo.FindByID(input.SubjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}

	subscriberIDs, err := s.subjectRepo.ListSubscriberIDs(input.SubjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}

	// Member set: owner plus all current subscribers. A consistent store
	// never has the owner subscribed to their own subject, but the insert
	// would violate the status primary key if it ever happened, so
	// duplicates are dropped here.
	memberIDs := uniqueUint64(append([]uint64{subject.OwnerID}, subscriberIDs...))

	task := &models.SubjectTask{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		SubjectID:   input.SubjectID,
	}

	if err := s.taskRepo.CreateWithStatuses(task, memberIDs); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns the subject's tasks joined with the caller's own
// status. Membership is checked first; tasks the caller has no status row
// for surface nil flags rather than failing.
func (s *TaskService) ListTasks(subjectID, callerID uint64) ([]repository.TaskWithStatus, error) {
	access, err := s.subjects.ResolveAccess(subjectID, callerID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember() {
		return nil, ErrNotSubjectMember
	}

	tasks, err := s.taskRepo.ListWithStatus(subjectID, callerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, nil
}

// SetDone updates the caller's own is_done flag on a task.
func (s *TaskService) SetDone(subjectID, taskID, callerID uint64, done bool) error {
	if err := s.ensureTaskVisible(subjectID, taskID, callerID); err != nil {
		return err
	}

	affected, err := s.taskRepo.SetDone(taskID, callerID, done)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if affected == 0 {
		return ErrStatusNotFound
	}

	return nil
}

// SetPassed updates the caller's own is_passed flag on a task.
func (s *TaskService) SetPassed(subjectID, taskID, callerID uint64, passed bool) error {
	if err := s.ensureTaskVisible(subjectID, taskID, callerID); err != nil {
		return err
	}

	affected, err := s.taskRepo.SetPassed(taskID, callerID, passed)
	if err != nil {
		return fmt.Errorf("failed to update task status: %w", err)
	}
	if affected == 0 {
		return ErrStatusNotFound
	}

	return nil
}

// UpdateTaskInput carries the fields of an update "for all". Nil pointers
// leave the current value in place; there is no way to null a field out.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Deadline    *time.Time
}

// UpdateTask updates a shared task for every member.
func (s *TaskService) UpdateTask(subjectID, taskID, callerID uint64, input UpdateTaskInput) (*models.SubjectTask, error) {
	if err := s.ensureEditAllowed(subjectID, callerID); err != nil {
		return nil, err
	}

	task, err := s.findTask(subjectID, taskID)
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
	if input.Deadline != nil {
		task.Deadline = input.Deadline
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a shared task and every member's status row.
func (s *TaskService) DeleteTask(subjectID, taskID, callerID uint64) error {
	if err := s.ensureEditAllowed(subjectID, callerID); err != nil {
		return err
	}

	if _, err := s.findTask(subjectID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.Delete(taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	return nil
}

func (s *TaskService) findTask(subjectID, taskID uint64) (*models.SubjectTask, error) {
	task, err := s.taskRepo.FindBySubject(subjectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}

// ensureTaskVisible gates status writes: membership first, then task
// existence under the subject.
func (s *TaskService) ensureTaskVisible(subjectID, taskID, callerID uint64) error {
	access, err := s.subjects.ResolveAccess(subjectID, callerID)
	if err != nil {
		return err
	}
	if !access.IsMember() {
		return ErrNotSubjectMember
	}

	_, err = s.findTask(subjectID, taskID)
	return err
}

// ensureEditAllowed gates update/delete "for all". Any member may edit
// unless owner-only enforcement is configured.
func (s *TaskService) ensureEditAllowed(subjectID, callerID uint64) error {
	access, err := s.subjects.ResolveAccess(subjectID, callerID)
	if err != nil {
		return err
	}
	if !access.IsMember() {
		return ErrNotSubjectMember
	}
	if s.editOwnerOnly && access != AccessOwner {
		return ErrNotSubjectOwner
	}
	return nil
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
