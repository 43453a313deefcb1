package repository

import (
	"github.com/ntquang/learnhub/internal/model"
	"gorm.io/gorm"
)

type AnswerRepository interface {
	CreateBatch(tx *gorm.DB, answers []model.StudentAnswer) error
	FindByAttempt(attemptID uint) ([]model.StudentAnswer, error)
}

type answerRepository struct {
	db *gorm.DB
}

func NewAnswerRepository(db *gorm.DB) AnswerRepository {
	return &answerRepository{db: db}
}

// CreateBatch writes one row per graded answer inside the grading
// transaction. Answers are immutable after this insert.
func (r *answerRepository) CreateBatch(tx *gorm.DB, answers []model.StudentAnswer) error {
	if len(answers) == 0 {
		return nil
	}
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(&answers).Error
}

func (r *answerRepository) FindByAttempt(attemptID uint) ([]model.StudentAnswer, error) {
	var answers []model.StudentAnswer
	err := r.db.Where("attempt_id = ?", attemptID).Order("question_id ASC").Find(&answers).Error
	return answers, err
}
