package models

import "time"

type SubjectTask struct {
	ID          uint64     `gorm:"primarykey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Deadline    *time.Time `json:"deadline"`
	SubjectID   uint64     `gorm:"not null" json:"subject_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Subject  Subject          `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	Statuses []UserTaskStatus `gorm:"foreignKey:SubjectTaskID" json:"statuses,omitempty"`
}
