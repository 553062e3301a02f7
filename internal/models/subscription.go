package models

import "time"

// Subscription is the membership edge between a user and a subject they
// joined via invitation code. The subject owner has no subscription row.
type Subscription struct {
	SubjectID uint64    `gorm:"primarykey" json:"subject_id"`
	UserID    uint64    `gorm:"primarykey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	// Relations
	Subject Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
	User    User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
