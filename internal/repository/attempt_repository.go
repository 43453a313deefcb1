package repository

import (
	"time"

	"github.com/ntquang/learnhub/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	Create(attempt *model.QuizAttempt) error
	FindByID(id uint) (*model.QuizAttempt, error)
	FindInProgress(studentID, quizID uint) (*model.QuizAttempt, error)
	CountAll(studentID, quizID uint) (int64, error)
	CountGraded(studentID, quizID uint) (int64, error)
	HasPassed(studentID, quizID uint, passingPercentage float64) (bool, error)
	MarkExpired(id uint) (bool, error)
	MarkGraded(tx *gorm.DB, id uint, totalScore, maxScore int, percentage float64, completedAt time.Time) (bool, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

func (r *attemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.db.Create(attempt).Error
}

func (r *attemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.First(&attempt, id).Error
	return &attempt, err
}

func (r *attemptRepository) FindInProgress(studentID, quizID uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.db.
		Where("student_id = ? AND quiz_id = ? AND status = ?", studentID, quizID, model.AttemptInProgress).
		First(&attempt).Error
	return &attempt, err
}

func (r *attemptRepository) CountAll(studentID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ?", studentID, quizID).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) CountGraded(studentID, quizID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ? AND status = ?", studentID, quizID, model.AttemptGraded).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) HasPassed(studentID, quizID uint, passingPercentage float64) (bool, error) {
	var count int64
	err := r.db.Model(&model.QuizAttempt{}).
		Where("student_id = ? AND quiz_id = ? AND status = ? AND percentage_score >= ?",
			studentID, quizID, model.AttemptGraded, passingPercentage).
		Count(&count).Error
	return count > 0, err
}

// MarkExpired moves an IN_PROGRESS attempt to EXPIRED. Returns false when the
// attempt already left IN_PROGRESS, so concurrent expirers race safely.
func (r *attemptRepository) MarkExpired(id uint) (bool, error) {
	res := r.db.Model(&model.QuizAttempt{}).
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Update("status", model.AttemptExpired)
	return res.RowsAffected > 0, res.Error
}

// MarkGraded is the single atomic IN_PROGRESS→GRADED transition. The loser of
// a double-submit race sees zero rows affected and must not write answers.
func (r *attemptRepository) MarkGraded(tx *gorm.DB, id uint, totalScore, maxScore int, percentage float64, completedAt time.Time) (bool, error) {
	db := r.db
	if tx != nil {
		db = tx
	}
	res := db.Model(&model.QuizAttempt{}).
		Where("id = ? AND status = ?", id, model.AttemptInProgress).
		Updates(map[string]interface{}{
			"status":           model.AttemptGraded,
			"total_score":      totalScore,
			"max_score":        maxScore,
			"percentage_score": percentage,
			"completed_at":     completedAt,
		})
	return res.RowsAffected > 0, res.Error
}
