package repository

import (
	"studytracker/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubjectTaskRepository is a GORM implementation of SubjectTaskRepository
type GormSubjectTaskRepository struct {
	db *gorm.DB
}

// NewSubjectTaskRepository creates a new SubjectTaskRepository
func NewSubjectTaskRepository(db *gorm.DB) SubjectTaskRepository {
	return &GormSubjectTaskRepository{db: db}
}

// CreateWithStatuses creates the task row and the full status cohort
// atomically. The batch insert references the generated task ID, so either
// the task and every member's status row exist, or none do.
func (r *GormSubjectTaskRepository) CreateWithStatuses(task *models.SubjectTask, memberIDs []uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(task).Error; err != nil {
			return err
		}

		if len(memberIDs) == 0 {
			return nil
		}

		statuses := make([]models.UserTaskStatus, len(memberIDs))
		for i, userID := range memberIDs {
			statuses[i] = models.UserTaskStatus{
				SubjectTaskID: task.ID,
				UserID:        userID,
				IsDone:        false,
				IsPassed:      false,
			}
		}

		return tx.Create(&statuses).Error
	})
}

// FindBySubject finds a task that belongs to the given subject
func (r *GormSubjectTaskRepository) FindBySubject(subjectID, taskID uint64) (*models.SubjectTask, error) {
	var task models.SubjectTask
	if err := r.db.Where("id = ? AND subject_id = ?", taskID, subjectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListWithStatus lists a subject's tasks left-joined with the viewer's own
// status rows. Tasks the viewer has no status for come back with nil flags.
func (r *GormSubjectTaskRepository) ListWithStatus(subjectID, viewerID uint64) ([]TaskWithStatus, error) {
	var rows []TaskWithStatus
	err := r.db.Model(&models.SubjectTask{}).
		Select("subject_tasks.id, subject_tasks.title, subject_tasks.description, subject_tasks.deadline, subject_tasks.subject_id, subject_tasks.created_at, subject_tasks.updated_at, user_task_statuses.is_done, user_task_statuses.is_passed").
		Joins("LEFT JOIN user_task_statuses ON user_task_statuses.subject_task_id = subject_tasks.id AND user_task_statuses.user_id = ?", viewerID).
		Where("subject_tasks.subject_id = ?", subjectID).
		Order("subject_tasks.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Update persists task field changes
func (r *GormSubjectTaskRepository) Update(task *models.SubjectTask) error {
	return r.db.Save(task).Error
}

// Delete removes a task and all of its status rows in a transaction
func (r *GormSubjectTaskRepository) Delete(taskID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("subject_task_id = ?", taskID).
			Delete(&models.UserTaskStatus{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.SubjectTask{}, taskID).Error
	})
}

// SetDone updates one member's is_done flag, returning rows affected
func (r *GormSubjectTaskRepository) SetDone(taskID, userID uint64, done bool) (int64, error) {
	result := r.db.Model(&models.UserTaskStatus{}).
		Where("subject_task_id = ? AND user_id = ?", taskID, userID).
		Update("is_done", done)
	return result.RowsAffected, result.Error
}

// SetPassed updates one member's is_passed flag, returning rows affected
func (r *GormSubjectTaskRepository) SetPassed(taskID, userID uint64, passed bool) (int64, error) {
	result := r.db.Model(&models.UserTaskStatus{}).
		Where("subject_task_id = ? AND user_id = ?", taskID, userID).
		Update("is_passed", passed)
	return result.RowsAffected, result.Error
}

// BackfillStatuses creates missing status rows for a member across a
// subject's existing tasks. Conflicts with rows created by the original
// fan-out are ignored.
func (r *GormSubjectTaskRepository) BackfillStatuses(subjectID, userID uint64) error {
	var taskIDs []uint64
	if err := r.db.Model(&models.SubjectTask{}).
		Where("subject_id = ?", subjectID).
		Pluck("id", &taskIDs).Error; err != nil {
		return err
	}

	if len(taskIDs) == 0 {
		return nil
	}

	statuses := make([]models.UserTaskStatus, len(taskIDs))
	for i, taskID := range taskIDs {
		statuses[i] = models.UserTaskStatus{
			SubjectTaskID: taskID,
			UserID:        userID,
		}
	}

	return r.db.
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "subject_task_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&statuses).Error
}
