package service

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.Module{},
		&model.ModuleEnrollment{},
		&model.AnalogySet{},
		&model.AnalogyInteraction{},
		&model.Quiz{},
		&model.Question{},
		&model.Option{},
		&model.QuizAttempt{},
		&model.QuizResponse{},
	))
	return db
}

func seedModuleWithStudent(t *testing.T, db *gorm.DB) (*model.Module, *model.User) {
	t.Helper()
	module := &model.Module{Code: "CSC7099", Name: "Concurrent Programming"}
	require.NoError(t, db.Create(module).Error)
	student := &model.User{Email: "student@demo.local", Role: model.RoleStudent}
	require.NoError(t, db.Create(student).Error)
	require.NoError(t, db.Create(&model.ModuleEnrollment{
		ModuleID: module.ID, UserID: student.ID, Status: model.EnrollmentActive,
	}).Error)
	return module, student
}

func seedPublishedQuiz(t *testing.T, db *gorm.DB, moduleID uint, maxAttempts int) *model.Quiz {
	t.Helper()
	quiz := &model.Quiz{
		Title:       "Deadlocks",
		Status:      model.QuizPublished,
		MaxAttempts: maxAttempts,
		OwnerID:     1,
		ModuleID:    moduleID,
		Questions: []model.Question{
			{
				Type: model.QuestionMCQ, OrderIndex: 0, Prompt: "Pick A",
				Options: []model.Option{
					{Text: "A", IsCorrect: true, OrderIndex: 0},
					{Text: "B", OrderIndex: 1},
				},
			},
			{
				Type: model.QuestionMCQ, OrderIndex: 1, Prompt: "Pick D",
				Options: []model.Option{
					{Text: "C", OrderIndex: 0},
					{Text: "D", IsCorrect: true, OrderIndex: 1},
				},
			},
			{Type: model.QuestionShort, OrderIndex: 2, Prompt: "Explain"},
		},
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

func newAttemptService(db *gorm.DB) AttemptService {
	return NewAttemptService(
		repository.NewQuizRepository(db),
		repository.NewAttemptRepository(db),
		repository.NewEnrollmentRepository(db),
		db,
	)
}

func TestComputeScore(t *testing.T) {
	assert.Equal(t, 0, computeScore(0, 0))
	assert.Equal(t, 0, computeScore(5, 0))
	assert.Equal(t, 100, computeScore(2, 2))
	assert.Equal(t, 50, computeScore(1, 2))
	assert.Equal(t, 67, computeScore(2, 3))
	assert.Equal(t, 33, computeScore(1, 3))
}

func TestGradeResponsesSkipsUnmatchedQuestions(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionMCQ, Options: []model.Option{{ID: 10, IsCorrect: true}}},
		{ID: 2, Type: model.QuestionMCQ, Options: []model.Option{{ID: 20, IsCorrect: true}}},
	}
	opt := uint(10)
	responses, graded, correct := gradeResponses(questions, []dto.ResponseSubmitDTO{
		{QuestionID: 1, SelectedOptionID: &opt},
	})
	assert.Len(t, responses, 1)
	assert.Equal(t, 1, graded)
	assert.Equal(t, 1, correct)
}

func TestGradeResponsesRejectsForeignOption(t *testing.T) {
	questions := []model.Question{
		{ID: 1, Type: model.QuestionMCQ, Options: []model.Option{{ID: 10, IsCorrect: true}}},
		{ID: 2, Type: model.QuestionMCQ, Options: []model.Option{{ID: 20, IsCorrect: true}}},
	}
	// Option 20 belongs to question 2; answering question 1 with it must
	// not grade, but the response is still persisted as incorrect.
	foreign := uint(20)
	responses, graded, correct := gradeResponses(questions, []dto.ResponseSubmitDTO{
		{QuestionID: 1, SelectedOptionID: &foreign},
	})
	require.Len(t, responses, 1)
	assert.Equal(t, 0, graded)
	assert.Equal(t, 0, correct)
	assert.Nil(t, responses[0].SelectedOptionID)
	require.NotNil(t, responses[0].IsCorrect)
	assert.False(t, *responses[0].IsCorrect)
}

func TestGradeResponsesShortAnswerTrimmedAndUngraded(t *testing.T) {
	questions := []model.Question{{ID: 3, Type: model.QuestionShort}}
	text := "  an answer  "
	responses, graded, _ := gradeResponses(questions, []dto.ResponseSubmitDTO{
		{QuestionID: 3, TextAnswer: &text},
	})
	require.Len(t, responses, 1)
	assert.Equal(t, 0, graded)
	assert.Nil(t, responses[0].IsCorrect)
	require.NotNil(t, responses[0].TextAnswer)
	assert.Equal(t, "an answer", *responses[0].TextAnswer)
}

func TestGradeResponsesShortAnswerCapKeepsValidUTF8(t *testing.T) {
	questions := []model.Question{{ID: 3, Type: model.QuestionShort}}
	text := strings.Repeat("a", maxTextAnswerLen-1) + "é"
	responses, _, _ := gradeResponses(questions, []dto.ResponseSubmitDTO{
		{QuestionID: 3, TextAnswer: &text},
	})
	require.Len(t, responses, 1)
	got := *responses[0].TextAnswer
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxTextAnswerLen-1), got)
}

func TestSubmitFullMarksWithShortAnswer(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 3)
	svc := newAttemptService(db)

	correctA := quiz.Questions[0].Options[0].ID
	correctD := quiz.Questions[1].Options[1].ID
	short := "Deadlock needs mutual exclusion, hold and wait, no preemption, circular wait."

	result, err := svc.Submit(quiz.ID, student.ID, dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: &correctA},
		{QuestionID: quiz.Questions[1].ID, SelectedOptionID: &correctD},
		{QuestionID: quiz.Questions[2].ID, TextAnswer: &short},
	}})
	require.NoError(t, err)
	assert.Equal(t, 100, result.Score)
	assert.Equal(t, 2, result.Graded)
	assert.Equal(t, 2, result.Correct)
	assert.Equal(t, model.AttemptSubmitted, result.Status)
	assert.NotEmpty(t, result.Reference)

	stored, err := repository.NewAttemptRepository(db).FindByIDWithResponses(result.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, model.AttemptSubmitted, stored.Status)
	require.NotNil(t, stored.Score)
	assert.Equal(t, 100, *stored.Score)
	require.Len(t, stored.Responses, 3)
	for _, r := range stored.Responses {
		if r.QuestionID == quiz.Questions[2].ID {
			assert.Nil(t, r.IsCorrect)
			require.NotNil(t, r.TextAnswer)
			assert.Equal(t, short, *r.TextAnswer)
		}
	}
}

func TestSubmitOnlyShortAnswersScoresZero(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 3)
	svc := newAttemptService(db)

	short := "a thoughtful essay"
	result, err := svc.Submit(quiz.ID, student.ID, dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[2].ID, TextAnswer: &short},
	}})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, 0, result.Graded)
}

func TestSubmitEnforcesAttemptLimit(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 2)
	svc := newAttemptService(db)

	correctA := quiz.Questions[0].Options[0].ID
	req := dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: &correctA},
	}}

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(quiz.ID, student.ID, req)
		require.NoError(t, err)
	}
	_, err := svc.Submit(quiz.ID, student.ID, req)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Never more SUBMITTED rows than the limit allows.
	var submitted int64
	require.NoError(t, db.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND student_id = ? AND status = ?", quiz.ID, student.ID, model.AttemptSubmitted).
		Count(&submitted).Error)
	assert.Equal(t, int64(2), submitted)
}

func TestSubmitIgnoresInProgressAttemptsInLimit(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 1)
	svc := newAttemptService(db)

	// An orphaned IN_PROGRESS attempt must not consume the limit.
	require.NoError(t, db.Create(&model.QuizAttempt{
		QuizID: quiz.ID, StudentID: student.ID, Status: model.AttemptInProgress,
	}).Error)

	correctA := quiz.Questions[0].Options[0].ID
	_, err := svc.Submit(quiz.ID, student.ID, dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: &correctA},
	}})
	require.NoError(t, err)
}

func TestSubmitRequiresPublishedQuizAndEnrollment(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 3)
	svc := newAttemptService(db)

	correctA := quiz.Questions[0].Options[0].ID
	req := dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: &correctA},
	}}

	// Unenrolled student.
	outsider := &model.User{Email: "other@demo.local", Role: model.RoleStudent}
	require.NoError(t, db.Create(outsider).Error)
	_, err := svc.Submit(quiz.ID, outsider.ID, req)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))

	// Draft quiz.
	require.NoError(t, db.Model(&model.Quiz{}).Where("id = ?", quiz.ID).
		Update("status", model.QuizDraft).Error)
	_, err = svc.Submit(quiz.ID, student.ID, req)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSubmitScoreAlwaysWithinBounds(t *testing.T) {
	db := setupTestDB(t)
	module, student := seedModuleWithStudent(t, db)
	quiz := seedPublishedQuiz(t, db, module.ID, 5)
	svc := newAttemptService(db)

	wrongB := quiz.Questions[0].Options[1].ID
	correctD := quiz.Questions[1].Options[1].ID
	result, err := svc.Submit(quiz.ID, student.ID, dto.AttemptSubmitDTO{Responses: []dto.ResponseSubmitDTO{
		{QuestionID: quiz.Questions[0].ID, SelectedOptionID: &wrongB},
		{QuestionID: quiz.Questions[1].ID, SelectedOptionID: &correctD},
	}})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, result.Score, 0)
	assert.LessOrEqual(t, result.Score, 100)
	assert.Equal(t, 50, result.Score)
}
