package models

// UserTaskStatus holds one member's completion state for a shared task.
// Exactly one row exists per (task, member) pair, created together with
// the task for every member of its subject.
type UserTaskStatus struct {
	SubjectTaskID uint64 `gorm:"primarykey" json:"subject_task_id"`
	UserID        uint64 `gorm:"primarykey" json:"user_id"`
	IsDone        bool   `gorm:"not null;default:false" json:"is_done"`
	IsPassed      bool   `gorm:"not null;default:false" json:"is_passed"`

	// Relations
	SubjectTask SubjectTask `gorm:"foreignKey:SubjectTaskID" json:"subject_task,omitempty"`
	User        User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
