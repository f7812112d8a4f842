package service

import (
	"errors"
	"strings"
	"time"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/cache"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// QuizService covers lecturer authoring and the read paths for both roles.
// Grading lives in AttemptService.
type QuizService interface {
	Create(req dto.QuizCreateDTO, ownerID uint) (*dto.QuizCreateResponse, error)
	Publish(id, ownerID uint) (*dto.QuizDTO, error)
	Archive(id, ownerID uint) (*dto.QuizDTO, error)
	GetForLecturer(id uint) (*dto.QuizDTO, error)
	GetForStudent(id, studentID uint) (*dto.QuizDTO, error)
	ListByModule(moduleCode string) ([]dto.QuizSummaryDTO, error)
}

type quizService struct {
	quizzes     repository.QuizRepository
	modules     repository.ModuleRepository
	enrollments repository.EnrollmentRepository
	cache       *cache.Cache
}

func NewQuizService(
	quizzes repository.QuizRepository,
	modules repository.ModuleRepository,
	enrollments repository.EnrollmentRepository,
	c *cache.Cache,
) QuizService {
	return &quizService{quizzes: quizzes, modules: modules, enrollments: enrollments, cache: c}
}

func (s *quizService) Create(req dto.QuizCreateDTO, ownerID uint) (*dto.QuizCreateResponse, error) {
	module, err := s.modules.FindByCode(strings.ToUpper(req.ModuleCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("module not found")
		}
		return nil, apperr.Internal("failed to resolve module", err)
	}

	questions, err := buildQuestions(req.Questions)
	if err != nil {
		return nil, err
	}

	quiz := &model.Quiz{
		Title:       strings.TrimSpace(req.Title),
		Status:      model.QuizDraft,
		Visibility:  req.Visibility,
		MaxAttempts: model.ClampMaxAttempts(req.MaxAttempts),
		DueAt:       req.DueAt,
		OwnerID:     ownerID,
		ModuleID:    module.ID,
		Questions:   questions,
	}
	if err := s.quizzes.Create(quiz); err != nil {
		return nil, apperr.Internal("failed to create quiz", err)
	}
	return &dto.QuizCreateResponse{ID: quiz.ID}, nil
}

// buildQuestions validates the authored structure: unique orderIndex within
// each parent, MCQs need at least two options and one correct, SHORT
// questions carry none.
func buildQuestions(reqs []dto.QuestionCreateDTO) ([]model.Question, error) {
	questionOrders := make(map[int]bool)
	questions := make([]model.Question, 0, len(reqs))

	for _, q := range reqs {
		if questionOrders[q.OrderIndex] {
			return nil, apperr.Validation("duplicate question order_index")
		}
		questionOrders[q.OrderIndex] = true

		difficulty := q.Difficulty
		if difficulty == "" {
			difficulty = "MEDIUM"
		}
		question := model.Question{
			Type:       q.Type,
			Difficulty: difficulty,
			OrderIndex: q.OrderIndex,
			Prompt:     q.Prompt,
		}

		switch q.Type {
		case model.QuestionMCQ:
			if len(q.Options) < 2 {
				return nil, apperr.Validation("MCQ questions need at least two options")
			}
			optionOrders := make(map[int]bool)
			hasCorrect := false
			for _, o := range q.Options {
				if optionOrders[o.OrderIndex] {
					return nil, apperr.Validation("duplicate option order_index")
				}
				optionOrders[o.OrderIndex] = true
				if o.IsCorrect {
					hasCorrect = true
				}
				question.Options = append(question.Options, model.Option{
					Text:       o.Text,
					IsCorrect:  o.IsCorrect,
					OrderIndex: o.OrderIndex,
				})
			}
			if !hasCorrect {
				return nil, apperr.Validation("MCQ questions need a correct option")
			}
		case model.QuestionShort:
			if len(q.Options) > 0 {
				return nil, apperr.Validation("SHORT questions cannot have options")
			}
		}
		questions = append(questions, question)
	}
	return questions, nil
}

func (s *quizService) Publish(id, ownerID uint) (*dto.QuizDTO, error) {
	quiz, err := s.findOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizDraft {
		return nil, apperr.Conflict("only draft quizzes can be published")
	}
	now := time.Now()
	quiz.Status = model.QuizPublished
	quiz.PublishedAt = &now
	return s.saveAndInvalidate(quiz)
}

func (s *quizService) Archive(id, ownerID uint) (*dto.QuizDTO, error) {
	quiz, err := s.findOwned(id, ownerID)
	if err != nil {
		return nil, err
	}
	if quiz.Status != model.QuizPublished {
		return nil, apperr.Conflict("only published quizzes can be archived")
	}
	quiz.Status = model.QuizArchived
	return s.saveAndInvalidate(quiz)
}

func (s *quizService) GetForLecturer(id uint) (*dto.QuizDTO, error) {
	quiz, err := s.findWithQuestions(id)
	if err != nil {
		return nil, err
	}
	return quizToDTO(quiz, true), nil
}

// GetForStudent serves only published quizzes in modules the student is
// actively enrolled in, with correct answers redacted. Everything else is
// not-found.
func (s *quizService) GetForStudent(id, studentID uint) (*dto.QuizDTO, error) {
	quiz := &model.Quiz{}
	hit, err := s.cache.Get(cache.QuizKey(id), quiz)
	if err != nil {
		log.Warn().Err(err).Uint("quizID", id).Msg("Quiz cache read failed")
		hit = false
	}
	if !hit {
		quiz, err = s.findWithQuestions(id)
		if err != nil {
			return nil, err
		}
		if quiz.Status == model.QuizPublished {
			if err := s.cache.Set(cache.QuizKey(id), quiz); err != nil {
				log.Warn().Err(err).Uint("quizID", id).Msg("Quiz cache write failed")
			}
		}
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
	return quizToDTO(quiz, false), nil
}

func (s *quizService) ListByModule(moduleCode string) ([]dto.QuizSummaryDTO, error) {
	module, err := s.modules.FindByCode(strings.ToUpper(moduleCode))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("module not found")
		}
		return nil, apperr.Internal("failed to resolve module", err)
	}
	quizzes, err := s.quizzes.FindAllByModule(module.ID)
	if err != nil {
		return nil, apperr.Internal("failed to list quizzes", err)
	}
	out := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, dto.QuizSummaryDTO{
			ID:          q.ID,
			Title:       q.Title,
			Status:      q.Status,
			MaxAttempts: q.MaxAttempts,
			DueAt:       q.DueAt,
			ModuleID:    q.ModuleID,
			CreatedAt:   q.CreatedAt,
		})
	}
	return out, nil
}

func (s *quizService) findWithQuestions(id uint) (*model.Quiz, error) {
	quiz, err := s.quizzes.FindByIDWithQuestions(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("not found")
		}
		return nil, apperr.Internal("failed to load quiz", err)
	}
	return quiz, nil
}

func (s *quizService) findOwned(id, ownerID uint) (*model.Quiz, error) {
	quiz, err := s.findWithQuestions(id)
	if err != nil {
		return nil, err
	}
	if quiz.OwnerID != ownerID {
		return nil, apperr.NotFound("not found")
	}
	return quiz, nil
}

func (s *quizService) saveAndInvalidate(quiz *model.Quiz) (*dto.QuizDTO, error) {
	if err := s.quizzes.Update(quiz); err != nil {
		return nil, apperr.Internal("failed to update quiz", err)
	}
	if err := s.cache.Delete(cache.QuizKey(quiz.ID)); err != nil {
		log.Warn().Err(err).Uint("quizID", quiz.ID).Msg("Quiz cache invalidation failed")
	}
	return quizToDTO(quiz, true), nil
}

// quizToDTO maps a quiz for responses. includeAnswers gates the IsCorrect
// flag: lecturers see it, students never do.
func quizToDTO(quiz *model.Quiz, includeAnswers bool) *dto.QuizDTO {
	resp := &dto.QuizDTO{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Status:      quiz.Status,
		Visibility:  quiz.Visibility,
		MaxAttempts: quiz.MaxAttempts,
		DueAt:       quiz.DueAt,
		PublishedAt: quiz.PublishedAt,
		ModuleID:    quiz.ModuleID,
		CreatedAt:   quiz.CreatedAt,
	}
	for _, q := range quiz.Questions {
		qd := dto.QuestionDTO{
			ID:         q.ID,
			Type:       q.Type,
			Difficulty: q.Difficulty,
			OrderIndex: q.OrderIndex,
			Prompt:     q.Prompt,
		}
		for _, o := range q.Options {
			od := dto.OptionDTO{ID: o.ID, Text: o.Text, OrderIndex: o.OrderIndex}
			if includeAnswers {
				correct := o.IsCorrect
				od.IsCorrect = &correct
			}
			qd.Options = append(qd.Options, od)
		}
		resp.Questions = append(resp.Questions, qd)
	}
	return resp
}
