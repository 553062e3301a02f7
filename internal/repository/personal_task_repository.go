package repository

import (
	"studytracker/internal/models"

	"gorm.io/gorm"
)

// GormPersonalTaskRepository is a GORM implementation of PersonalTaskRepository
type GormPersonalTaskRepository struct {
	db *gorm.DB
}

// NewPersonalTaskRepository creates a new PersonalTaskRepository
func NewPersonalTaskRepository(db *gorm.DB) PersonalTaskRepository {
	return &GormPersonalTaskRepository{db: db}
}

// Create creates a new personal task
func (r *GormPersonalTaskRepository) Create(task *models.PersonalTask) error {
	return r.db.Create(task).Error
}

// FindByIDAndUser finds a task owned by the given user
func (r *GormPersonalTaskRepository) FindByIDAndUser(taskID, userID uint64) (*models.PersonalTask, error) {
	var task models.PersonalTask
	if err := r.db.Where("id = ? AND user_id = ?", taskID, userID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser lists a user's personal tasks, newest first
func (r *GormPersonalTaskRepository) ListByUser(userID uint64) ([]models.PersonalTask, error) {
	var tasks []models.PersonalTask
	if err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists task field changes
func (r *GormPersonalTaskRepository) Update(task *models.PersonalTask) error {
	return r.db.Save(task).Error
}

// Delete removes a task owned by the given user, returning rows affected
func (r *GormPersonalTaskRepository) Delete(taskID, userID uint64) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", taskID, userID).
		Delete(&models.PersonalTask{})
	return result.RowsAffected, result.Error
}
