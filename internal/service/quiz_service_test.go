package service

import (
	"testing"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/cache"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newQuizService(db *gorm.DB) QuizService {
	return NewQuizService(
		repository.NewQuizRepository(db),
		repository.NewModuleRepository(db),
		repository.NewEnrollmentRepository(db),
		&cache.Cache{},
	)
}

func validQuizCreate(moduleCode string) dto.QuizCreateDTO {
	return dto.QuizCreateDTO{
		Title:       "Deadlocks",
		ModuleCode:  moduleCode,
		MaxAttempts: 3,
		Questions: []dto.QuestionCreateDTO{
			{
				Type: model.QuestionMCQ, OrderIndex: 0, Prompt: "Pick A",
				Options: []dto.OptionCreateDTO{
					{Text: "A", IsCorrect: true, OrderIndex: 0},
					{Text: "B", OrderIndex: 1},
				},
			},
			{Type: model.QuestionShort, OrderIndex: 1, Prompt: "Explain"},
		},
	}
}

func TestClampMaxAttempts(t *testing.T) {
	assert.Equal(t, 1, model.ClampMaxAttempts(0))
	assert.Equal(t, 1, model.ClampMaxAttempts(-3))
	assert.Equal(t, 1, model.ClampMaxAttempts(1))
	assert.Equal(t, 3, model.ClampMaxAttempts(3))
	assert.Equal(t, 5, model.ClampMaxAttempts(5))
	assert.Equal(t, 5, model.ClampMaxAttempts(99))
}

func TestQuizCreateClampsMaxAttempts(t *testing.T) {
	db := setupTestDB(t)
	module, _ := seedModuleWithStudent(t, db)
	svc := newQuizService(db)

	req := validQuizCreate(module.Code)
	req.MaxAttempts = 99
	created, err := svc.Create(req, 1)
	require.NoError(t, err)

	out, err := svc.GetForLecturer(created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MaxAttempts, out.MaxAttempts)
	assert.Equal(t, model.QuizDraft, out.Status)
}

func TestQuizCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	module, _ := seedModuleWithStudent(t, db)
	svc := newQuizService(db)

	cases := []struct {
		name   string
		mutate func(*dto.QuizCreateDTO)
	}{
		{"mcq with one option", func(r *dto.QuizCreateDTO) {
			r.Questions[0].Options = r.Questions[0].Options[:1]
		}},
		{"mcq with no correct option", func(r *dto.QuizCreateDTO) {
			r.Questions[0].Options[0].IsCorrect = false
		}},
		{"short with options", func(r *dto.QuizCreateDTO) {
			r.Questions[1].Options = []dto.OptionCreateDTO{{Text: "x", OrderIndex: 0}}
		}},
		{"duplicate question order", func(r *dto.QuizCreateDTO) {
			r.Questions[1].OrderIndex = r.Questions[0].OrderIndex
		}},
		{"duplicate option order", func(r *dto.QuizCreateDTO) {
			r.Questions[0].Options[1].OrderIndex = r.Questions[0].Options[0].OrderIndex
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validQuizCreate(module.Code)
			tc.mutate(&req)
			_, err := svc.Create(req, 1)
			require.Error(t, err)
			assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
		})
	}
}

func TestQuizLifecycleTransitions(t *testing.T) {
	db := setupTestDB(t)
	module, _ := seedModuleWithStudent(t, db)
	svc := newQuizService(db)

	created, err := svc.Create(validQuizCreate(module.Code), 1)
	require.NoError(t, err)

	// Archiving a draft is a conflict.
	_, err = svc.Archive(created.ID, 1)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	published, err := svc.Publish(created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.QuizPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)

	// Publishing twice is a conflict.
	_, err = svc.Publish(created.ID, 1)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	archived, err := svc.Archive(created.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, model.QuizArchived, archived.Status)

	// A non-owner cannot see or mutate it at all.
	_, err = svc.Publish(created.ID, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGetForStudentRedactsAnswers(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	svc := newQuizService(db)

	created, err := svc.Create(validQuizCreate(module.Code), 1)
	require.NoError(t, err)

	// Draft quizzes are invisible to students.
	_, err = svc.GetForStudent(created.ID, student.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	_, err = svc.Publish(created.ID, 1)
	require.NoError(t, err)

	out, err := svc.GetForStudent(created.ID, student.ID)
	require.NoError(t, err)
	require.NotEmpty(t, out.Questions)
	for _, q := range out.Questions {
		for _, o := range q.Options {
			assert.Nil(t, o.IsCorrect)
		}
	}

	// Lecturer view keeps the flag.
	lecturerView, err := svc.GetForLecturer(created.ID)
	require.NoError(t, err)
	require.NotNil(t, lecturerView.Questions[0].Options[0].IsCorrect)
	assert.True(t, *lecturerView.Questions[0].Options[0].IsCorrect)

	// Unenrolled students get not-found even when published.
	outsider := &model.User{Email: "other@demo.local", Role: model.RoleStudent}
	require.NoError(t, db.Create(outsider).Error)
	_, err = svc.GetForStudent(created.ID, outsider.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestListByModule(t *testing.T) {
	db := setupTestDB(t)
	module, _ := seedModuleWithStudent(t, db)
	svc := newQuizService(db)

	_, err := svc.Create(validQuizCreate(module.Code), 1)
	require.NoError(t, err)

	quizzes, err := svc.ListByModule("csc7099")
	require.NoError(t, err)
	require.Len(t, quizzes, 1)
	assert.Equal(t, "Deadlocks", quizzes[0].Title)

	_, err = svc.ListByModule("NOPE999")
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
