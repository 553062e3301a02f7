package repository

import (
	"studytracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubjectRepository is a GORM implementation of SubjectRepository
type GormSubjectRepository struct {
	db *gorm.DB
}

// NewSubjectRepository creates a new SubjectRepository
func NewSubjectRepository(db *gorm.DB) SubjectRepository {
	return &GormSubjectRepository{db: db}
}

// Create creates a new subject
func (r *GormSubjectRepository) Create(subject *models.Subject) error {
	return r.db.Create(subject).Error
}

// FindByID finds a subject by ID
func (r *GormSubjectRepository) FindByID(id uint64) (*models.Subject, error) {
	var subject models.Subject
	if err := r.db.First(&subject, id).Error; err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListForUser lists subjects the user owns or subscribes to
func (r *GormSubjectRepository) ListForUser(userID uint64) ([]models.Subject, error) {
	var subjects []models.Subject
	err := r.db.
		Distinct("subjects.*").
		Joins("LEFT JOIN subscriptions ON subscriptions.subject_id = subjects.id AND subscriptions.user_id = ?", userID).
		Where("subjects.owner_id = ? OR subscriptions.user_id IS NOT NULL", userID).
		Find(&subjects).Error
	if err != nil {
		return nil, err
	}
	return subjects, nil
}

// Delete removes a subject and all related data in a transaction
func (r *GormSubjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		statusSubQuery := tx.Model(&models.SubjectTask{}).
			Select("id").
			Where("subject_id = ?", id)
		if err := tx.Where("subject_task_id IN (?)", statusSubQuery).
			Delete(&models.UserTaskStatus{}).Error; err != nil {
			return err
		}

		if err := tx.Where("subject_id = ?", id).Delete(&models.SubjectTask{}).Error; err != nil {
			return err
		}

		if err := tx.Where("subject_id = ?", id).Delete(&models.Subscription{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Subject{}, id).Error
	})
}

// AddSubscription inserts a membership edge. Redeeming the same code twice
// must leave a single row, so conflicts on the composite key are ignored.
func (r *GormSubjectRepository) AddSubscription(sub *models.Subscription) error {
	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(sub).Error
}

// FindSubscription finds a specific membership edge
func (r *GormSubjectRepository) FindSubscription(subjectID, userID uint64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.Where("subject_id = ? AND user_id = ?", subjectID, userID).
		First(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ListSubscriberIDs lists the user IDs subscribed to a subject
func (r *GormSubjectRepository) ListSubscriberIDs(subjectID uint64) ([]uint64, error) {
	var userIDs []uint64
	err := r.db.Model(&models.Subscription{}).
		Where("subject_id = ?", subjectID).
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}
