package models

import "time"

type Subject struct {
	ID          uint64    `gorm:"primarykey" json:"id"`
	Title       string    `gorm:"type:varchar(255);not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	InviteCode  string    `gorm:"type:varchar(50);uniqueIndex;not null" json:"invitation_code"`
	OwnerID     uint64    `gorm:"not null" json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relations
	Owner         User           `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Subscriptions []Subscription `gorm:"foreignKey:SubjectID" json:"subscriptions,omitempty"`
	Tasks         []SubjectTask  `gorm:"foreignKey:SubjectID" json:"tasks,omitempty"`
}
