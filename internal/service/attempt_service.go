package service

import (
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxTextAnswerLen caps free-text answers before persistence.
const maxTextAnswerLen = 5000

// AttemptService accepts a student's responses for a published quiz and
// produces a graded, SUBMITTED attempt.
type AttemptService interface {
	Submit(quizID, studentID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error)
	MyAttempts(quizID, studentID uint) ([]dto.AttemptSummaryDTO, error)
}

type attemptService struct {
	quizzes     repository.QuizRepository
	attempts    repository.AttemptRepository
	enrollments repository.EnrollmentRepository
	db          *gorm.DB
}

func NewAttemptService(
	quizzes repository.QuizRepository,
	attempts repository.AttemptRepository,
	enrollments repository.EnrollmentRepository,
	db *gorm.DB,
) AttemptService {
	return &attemptService{quizzes: quizzes, attempts: attempts, enrollments: enrollments, db: db}
}

// submitTxRetries bounds re-runs of the submission transaction after a
// serialization failure.
const submitTxRetries = 3

// Submit enforces the preconditions, grades the responses, and persists the
// attempt. Creation, the attempt-limit re-check, response inserts, and
// finalization all run in one serializable transaction: of two racing
// submissions the loser aborts with a serialization failure and is retried,
// re-reading the committed count, so the limit cannot be exceeded.
func (s *attemptService) Submit(quizID, studentID uint, req dto.AttemptSubmitDTO) (*dto.AttemptResultDTO, error) {
	quiz, err := s.quizzes.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, apperr.Internal("failed to load quiz", err)
	}
	if quiz.Status != model.QuizPublished {
		return nil, apperr.NotFound("not found")
	}
	active, err := s.enrollments.HasActive(quiz.ModuleID, studentID)
	if err != nil {
		return nil, apperr.Internal("failed to check enrollment", err)
	}
	if !active {
		return nil, apperr.NotFound("not found")
	}

	// Fast pre-check outside the transaction keeps the common over-limit
	// case cheap; the authoritative check happens inside.
	count, err := s.attempts.CountSubmitted(quizID, studentID)
	if err != nil {
		return nil, apperr.Internal("failed to count attempts", err)
	}
	if count >= int64(quiz.MaxAttempts) {
		return nil, apperr.NotFound("not found")
	}

	responses, graded, correct := gradeResponses(quiz.Questions, req.Responses)
	score := computeScore(correct, graded)

	now := time.Now()
	var attempt model.QuizAttempt
	for try := 0; try < submitTxRetries; try++ {
		attempt = model.QuizAttempt{
			Reference: uuid.NewString(),
			QuizID:    quizID,
			StudentID: studentID,
			Status:    model.AttemptInProgress,
		}
		for i := range responses {
			responses[i].ID = 0
			responses[i].AttemptID = 0
		}

		err = s.db.Transaction(func(tx *gorm.DB) error {
			txCount, err := repository.CountSubmittedTx(tx, quizID, studentID)
			if err != nil {
				return err
			}
			if txCount >= int64(quiz.MaxAttempts) {
				return apperr.NotFound("not found")
			}
			if err := tx.Create(&attempt).Error; err != nil {
				return err
			}
			for i := range responses {
				responses[i].AttemptID = attempt.ID
			}
			if len(responses) > 0 {
				if err := tx.Create(&responses).Error; err != nil {
					return err
				}
			}
			return tx.Model(&attempt).Updates(map[string]interface{}{
				"status":       model.AttemptSubmitted,
				"score":        score,
				"submitted_at": now,
			}).Error
		}, &sql.TxOptions{Isolation: sql.LevelSerializable})
		if err == nil {
			break
		}
		var ae *apperr.Error
		if errors.As(err, &ae) {
			break
		}
		log.Warn().Err(err).Uint("quizID", quizID).Uint("studentID", studentID).Msg("Attempt transaction aborted, retrying")
	}
	if err != nil {
		if apperr.KindOf(err) == apperr.KindNotFound {
			return nil, err
		}
		log.Error().Err(err).Uint("quizID", quizID).Uint("studentID", studentID).Msg("Attempt submission failed")
		return nil, apperr.Internal("failed to submit attempt", err)
	}

	result := &dto.AttemptResultDTO{
		AttemptID:   attempt.ID,
		Reference:   attempt.Reference,
		Score:       score,
		Graded:      graded,
		Correct:     correct,
		Status:      model.AttemptSubmitted,
		SubmittedAt: &now,
	}
	for _, r := range responses {
		result.Responses = append(result.Responses, dto.ResponseResultDTO{
			QuestionID:       r.QuestionID,
			SelectedOptionID: r.SelectedOptionID,
			TextAnswer:       r.TextAnswer,
			IsCorrect:        r.IsCorrect,
		})
	}
	return result, nil
}

func (s *attemptService) MyAttempts(quizID, studentID uint) ([]dto.AttemptSummaryDTO, error) {
	attempts, err := s.attempts.FindAllByQuizAndStudent(quizID, studentID)
	if err != nil {
		return nil, apperr.Internal("failed to list attempts", err)
	}
	out := make([]dto.AttemptSummaryDTO, 0, len(attempts))
	for _, a := range attempts {
		out = append(out, dto.AttemptSummaryDTO{
			ID:          a.ID,
			Reference:   a.Reference,
			QuizID:      a.QuizID,
			Status:      a.Status,
			Score:       a.Score,
			SubmittedAt: a.SubmittedAt,
			CreatedAt:   a.CreatedAt,
		})
	}
	return out, nil
}

// gradeResponses walks the quiz's questions in orderIndex order and matches
// submitted responses by question id. Questions with no submitted response
// are skipped entirely. Selected options are resolved only against the
// owning question's option set, so an option id smuggled in from another
// question never grades.
func gradeResponses(questions []model.Question, submitted []dto.ResponseSubmitDTO) (responses []model.QuizResponse, graded, correct int) {
	byQuestion := make(map[uint]dto.ResponseSubmitDTO, len(submitted))
	for _, r := range submitted {
		byQuestion[r.QuestionID] = r
	}

	for _, q := range questions {
		sub, ok := byQuestion[q.ID]
		if !ok {
			continue
		}
		switch q.Type {
		case model.QuestionMCQ:
			resp := model.QuizResponse{QuestionID: q.ID}
			isCorrect := false
			if sub.SelectedOptionID != nil {
				if opt := resolveOption(q, *sub.SelectedOptionID); opt != nil {
					graded++
					isCorrect = opt.IsCorrect
					if isCorrect {
						correct++
					}
					resp.SelectedOptionID = &opt.ID
				}
			}
			resp.IsCorrect = &isCorrect
			responses = append(responses, resp)

		case model.QuestionShort:
			text := ""
			if sub.TextAnswer != nil {
				text = strings.TrimSpace(*sub.TextAnswer)
			}
			text = truncateRunes(text, maxTextAnswerLen)
			responses = append(responses, model.QuizResponse{
				QuestionID: q.ID,
				TextAnswer: &text,
				IsCorrect:  nil, // never auto-graded
			})
		}
	}
	return responses, graded, correct
}

// resolveOption returns the question's own option with the given id, nil if
// the id belongs to another question or does not exist.
func resolveOption(q model.Question, optionID uint) *model.Option {
	for i := range q.Options {
		if q.Options[i].ID == optionID {
			return &q.Options[i]
		}
	}
	return nil
}

// computeScore averages only over gradable MCQ responses that were actually
// answered. No answered MCQs means a score of zero, regardless of any SHORT
// answers.
func computeScore(correct, graded int) int {
	if graded <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(graded) * 100))
}
