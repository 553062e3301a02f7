package repository

import (
	"time"

	"studytracker/internal/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByUsername finds a user by username
	FindByUsername(username string) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// UpdatePasswordHash replaces a user's password hash
	UpdatePasswordHash(userID uint64, hash string) error
}

// SubjectRepository defines the interface for subject and subscription data access
type SubjectRepository interface {
	// Create creates a new subject
	Create(subject *models.Subject) error

	// FindByID finds a subject by ID
	FindByID(id uint64) (*models.Subject, error)

	// ListForUser lists subjects the user owns or subscribes to
	ListForUser(userID uint64) ([]models.Subject, error)

	// Delete removes a subject with its tasks, statuses and subscriptions
	Delete(id uint64) error

	// AddSubscription inserts a membership edge, tolerating duplicates
	AddSubscription(sub *models.Subscription) error

	// FindSubscription finds a specific membership edge
	FindSubscription(subjectID, userID uint64) (*models.Subscription, error)

	// ListSubscriberIDs lists the user IDs subscribed to a subject
	ListSubscriberIDs(subjectID uint64) ([]uint64, error)
}

// TaskWithStatus is a shared task joined with the viewer's own status.
// Status fields are nil when the viewer has no status row for the task.
type TaskWithStatus struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	SubjectID   uint64     `json:"subject_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	IsDone      *bool      `json:"is_done"`
	IsPassed    *bool      `json:"is_passed"`
}

// SubjectTaskRepository defines the interface for shared task data access
type SubjectTaskRepository interface {
	// CreateWithStatuses creates a task and one status row per member
	// in a single transaction
	CreateWithStatuses(task *models.SubjectTask, memberIDs []uint64) error

	// FindBySubject finds a task that belongs to the given subject
	FindBySubject(subjectID, taskID uint64) (*models.SubjectTask, error)

	// ListWithStatus lists a subject's tasks joined with the viewer's status
	ListWithStatus(subjectID, viewerID uint64) ([]TaskWithStatus, error)

	// Update persists task field changes
	Update(task *models.SubjectTask) error

	// Delete removes a task and all of its status rows
	Delete(taskID uint64) error

	// SetDone updates one member's is_done flag, returning rows affected
	SetDone(taskID, userID uint64, done bool) (int64, error)

	// SetPassed updates one member's is_passed flag, returning rows affected
	SetPassed(taskID, userID uint64, passed bool) (int64, error)

	// BackfillStatuses creates missing status rows for a member across a
	// subject's existing tasks
	BackfillStatuses(subjectID, userID uint64) error
}

// PersonalTaskRepository defines the interface for personal task data access
type PersonalTaskRepository interface {
	// Create creates a new personal task
	Create(task *models.PersonalTask) error

	// FindByIDAndUser finds a task owned by the given user
	FindByIDAndUser(taskID, userID uint64) (*models.PersonalTask, error)

	// ListByUser lists a user's personal tasks, newest first
	ListByUser(userID uint64) ([]models.PersonalTask, error)

	// Update persists task field changes
	Update(task *models.PersonalTask) error

	// Delete removes a task owned by the given user, returning rows affected
	Delete(taskID, userID uint64) (int64, error)
}
