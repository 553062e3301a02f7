package dto

import (
	"time"

	"studytracker/internal/models"
	"studytracker/internal/repository"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SubjectDTO represents a subject in API responses. The invitation code is
// only present for the owner.
type SubjectDTO struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	OwnerID     uint64 `json:"owner_id"`
	InviteCode  string `json:"invitation_code,omitempty"`
}

// TaskDTO represents a shared task in API responses
type TaskDTO struct {
	ID          uint64     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Deadline    *time.Time `json:"deadline"`
	SubjectID   uint64     `json:"subject_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TaskWithStatusDTO is a shared task with the viewer's own status attached.
// Status fields are null when the viewer has no status row for the task.
type TaskWithStatusDTO struct {
	TaskDTO
	IsDone   *bool `json:"is_done"`
	IsPassed *bool `json:"is_passed"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}

// ToSubjectDTO converts a Subject model to SubjectDTO
func ToSubjectDTO(subject models.Subject, includeInviteCode bool) SubjectDTO {
	dto := SubjectDTO{
		ID:          subject.ID,
		Title:       subject.Title,
		Description: subject.Description,
		OwnerID:     subject.OwnerID,
	}
	if includeInviteCode {
		dto.InviteCode = subject.InviteCode
	}
	return dto
}

// ToTaskDTO converts a SubjectTask model to TaskDTO
func ToTaskDTO(task models.SubjectTask) TaskDTO {
	return TaskDTO{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Deadline:    task.Deadline,
		SubjectID:   task.SubjectID,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
}

// ToTaskWithStatusDTO converts a joined task row to its DTO
func ToTaskWithStatusDTO(row repository.TaskWithStatus) TaskWithStatusDTO {
	return TaskWithStatusDTO{
		TaskDTO: TaskDTO{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Deadline:    row.Deadline,
			SubjectID:   row.SubjectID,
			CreatedAt:   row.CreatedAt,
			UpdatedAt:   row.UpdatedAt,
		},
		IsDone:   row.IsDone,
		IsPassed: row.IsPassed,
	}
}

// ToTaskWithStatusDTOs converts a slice of joined task rows
func ToTaskWithStatusDTOs(rows []repository.TaskWithStatus) []TaskWithStatusDTO {
	dtos := make([]TaskWithStatusDTO, len(rows))
	for i, row := range rows {
		dtos[i] = ToTaskWithStatusDTO(row)
	}
	return dtos
}
