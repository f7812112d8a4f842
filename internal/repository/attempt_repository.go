package repository

import (
	"github.com/edustack/analogia/internal/model"
	"gorm.io/gorm"
)

type AttemptRepository interface {
	CountSubmitted(quizID, studentID uint) (int64, error)
	FindByIDWithResponses(id uint) (*model.QuizAttempt, error)
	FindAllByQuizAndStudent(quizID, studentID uint) ([]model.QuizAttempt, error)
}

type attemptRepository struct {
	db *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) AttemptRepository {
	return &attemptRepository{db: db}
}

// CountSubmitted counts finished attempts only. IN_PROGRESS rows left behind
// by aborted submissions never count toward the limit.
func (r *attemptRepository) CountSubmitted(quizID, studentID uint) (int64, error) {
	return CountSubmittedTx(r.db, quizID, studentID)
}

// CountSubmittedTx is the same count bound to tx, so the attempt limit can
// be re-checked inside the submission transaction.
func CountSubmittedTx(tx *gorm.DB, quizID, studentID uint) (int64, error) {
	var count int64
	err := tx.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND student_id = ? AND status = ?", quizID, studentID, model.AttemptSubmitted).
		Count(&count).Error
	return count, err
}

func (r *attemptRepository) FindByIDWithResponses(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	if err := r.db.Preload("Responses").First(&attempt, id).Error; err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *attemptRepository) FindAllByQuizAndStudent(quizID, studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.db.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("created_at DESC").Find(&attempts).Error
	if err != nil {
		return nil, err
	}
	return attempts, nil
}
