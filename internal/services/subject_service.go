package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"studytracker/internal/models"
	"studytracker/internal/repository"
	"studytracker/internal/utils"
)

var (
	ErrSubjectNotFound           = errors.New("subject not found")
	ErrNotSubjectMember          = errors.New("user is not a member of the subject")
	ErrNotSubjectOwner           = errors.New("only the subject owner can perform this action")
	ErrInvalidSubjectTitle       = errors.New("subject title cannot be empty")
	ErrInvalidInvitationCode     = errors.New("invalid invitation code")
	ErrInviteCodeGenerationFailed = errors.New("failed to generate invitation code")
)

// AccessLevel describes a user's relation to a subject.
type AccessLevel int

const (
	AccessNone AccessLevel = iota
	AccessSubscriber
	AccessOwner
)

// IsMember reports whether the level grants member access.
func (l AccessLevel) IsMember() bool {
	return l == AccessOwner || l == AccessSubscriber
}

// SubjectService provides business logic for subjects and subscriptions.
type SubjectService struct {
	subjectRepo repository.SubjectRepository
	taskRepo    repository.SubjectTaskRepository

	// backfillStatuses controls whether a new subscriber gets status rows
	// for the subject's existing tasks.
	backfillStatuses bool
}

// NewSubjectService creates a new SubjectService.
func NewSubjectService(subjectRepo repository.SubjectRepository, taskRepo repository.SubjectTaskRepository, backfillStatuses bool) *SubjectService {
	return &SubjectService{
		subjectRepo:      subjectRepo,
		taskRepo:         taskRepo,
		backfillStatuses: backfillStatuses,
	}
}

// ResolveAccess determines a user's relation to a subject: owner,
// subscriber, or none. A missing subject is ErrSubjectNotFound, distinct
// from an existing subject the user has no access to.
func (s *SubjectService) ResolveAccess(subjectID, userID uint64) (AccessLevel, error) {
	subject, err := s.subjectRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AccessNone, ErrSubjectNotFound
		}
		return AccessNone, fmt.Errorf("failed to find subject: %w", err)
	}

	if subject.OwnerID == userID {
		return AccessOwner, nil
	}

	if _, err := s.subjectRepo.FindSubscription(subjectID, userID); err == nil {
		return AccessSubscriber, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return AccessNone, fmt.Errorf("failed to check subscription: %w", err)
	}

	return AccessNone, nil
}

// CreateSubjectInput represents parameters to create a new subject.
type CreateSubjectInput struct {
	Title       string
	Description string
	OwnerID     uint64
}

// CreateSubject creates a new subject with a fresh invitation code.
func (s *SubjectService) CreateSubject(input CreateSubjectInput) (*models.Subject, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrInvalidSubjectTitle
	}

	inviteCode, err := utils.GenerateInviteCode()
	if err != nil {
		return nil, ErrInviteCodeGenerationFailed
	}

	subject := &models.Subject{
		Title:       input.Title,
		Description: input.Description,
		InviteCode:  inviteCode,
		OwnerID:     input.OwnerID,
	}

	if err := s.subjectRepo.Create(subject); err != nil {
		return nil, fmt.Errorf("failed to create subject: %w", err)
	}

	return subject, nil
}

// ListSubjectsForUser returns subjects the user owns or subscribes to.
func (s *SubjectService) ListSubjectsForUser(userID uint64) ([]models.Subject, error) {
	subjects, err := s.subjectRepo.ListForUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	return subjects, nil
}

// GetSubjectForUser returns a subject the user is a member of. Both a
// missing subject and a no-access subject come back as ErrSubjectNotFound
// so non-members cannot probe for existence.
func (s *SubjectService) GetSubjectForUser(subjectID, userID uint64) (*models.Subject, error) {
	access, err := s.ResolveAccess(subjectID, userID)
	if err != nil {
		return nil, err
	}
	if !access.IsMember() {
		return nil, ErrSubjectNotFound
	}

	subject, err := s.subjectRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubjectNotFound
		}
		return nil, fmt.Errorf("failed to find subject: %w", err)
	}

	return subject, nil
}

// DeleteSubject removes a subject with its tasks, statuses and
// subscriptions. Owner only; non-owners get ErrSubjectNotFound.
func (s *SubjectService) DeleteSubject(subjectID, userID uint64) error {
	subject, err := s.subjectRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubjectNotFound
		}
		return fmt.Errorf("failed to find subject: %w", err)
	}

	if subject.OwnerID != userID {
		return ErrSubjectNotFound
	}

	if err := s.subjectRepo.Delete(subjectID); err != nil {
		return fmt.Errorf("failed to delete subject: %w", err)
	}

	return nil
}

// Subscribe redeems an invitation code for a subject. The code must match
// the addressed subject. Re-redemption is a no-op thanks to the
// conflict-tolerant insert, so concurrent redeems leave a single row.
func (s *SubjectService) Subscribe(subjectID, userID uint64, invitationCode string) error {
	subject, err := s.subjectRepo.FindByID(subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidInvitationCode
		}
		return fmt.Errorf("failed to find subject: %w", err)
	}

	if subject.InviteCode != invitationCode {
		return ErrInvalidInvitationCode
	}

	// The owner is already a member; a subscription row would double-count
	// them in the fan-out member set.
	if subject.OwnerID == userID {
		return nil
	}

	sub := &models.Subscription{
		SubjectID: subjectID,
		UserID:    userID,
	}

	if err := s.subjectRepo.AddSubscription(sub); err != nil {
		return fmt.Errorf("failed to add subscription: %w", err)
	}

	if s.backfillStatuses {
		if err := s.taskRepo.BackfillStatuses(subjectID, userID); err != nil {
			return fmt.Errorf("failed to backfill task statuses: %w", err)
		}
	}

	return nil
}
