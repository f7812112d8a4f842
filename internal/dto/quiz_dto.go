package dto

import "time"

type OptionCreateDTO struct {
	Text       string `json:"text" binding:"required"`
	IsCorrect  bool   `json:"is_correct"`
	OrderIndex int    `json:"order_index" binding:"min=0"`
}

type QuestionCreateDTO struct {
	Type       string            `json:"type" binding:"required,oneof=MCQ SHORT"`
	Difficulty string            `json:"difficulty" binding:"omitempty,oneof=EASY MEDIUM HARD"`
	OrderIndex int               `json:"order_index" binding:"min=0"`
	Prompt     string            `json:"prompt" binding:"required"`
	Options    []OptionCreateDTO `json:"options" binding:"omitempty,dive"`
}

type QuizCreateDTO struct {
	Title       string              `json:"title" binding:"required"`
	ModuleCode  string              `json:"moduleCode" binding:"required"`
	MaxAttempts int                 `json:"max_attempts"`
	DueAt       *time.Time          `json:"due_at"`
	Visibility  string              `json:"visibility"`
	Questions   []QuestionCreateDTO `json:"questions" binding:"required,min=1,dive"`
}

type QuizCreateResponse struct {
	ID uint `json:"id"`
}

// OptionDTO redacts IsCorrect on student reads; lecturers get it back.
type OptionDTO struct {
	ID         uint   `json:"id"`
	Text       string `json:"text"`
	OrderIndex int    `json:"order_index"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

type QuestionDTO struct {
	ID         uint        `json:"id"`
	Type       string      `json:"type"`
	Difficulty string      `json:"difficulty"`
	OrderIndex int         `json:"order_index"`
	Prompt     string      `json:"prompt"`
	Options    []OptionDTO `json:"options,omitempty"`
}

type QuizDTO struct {
	ID          uint          `json:"id"`
	Title       string        `json:"title"`
	Status      string        `json:"status"`
	Visibility  string        `json:"visibility,omitempty"`
	MaxAttempts int           `json:"max_attempts"`
	DueAt       *time.Time    `json:"due_at,omitempty"`
	PublishedAt *time.Time    `json:"published_at,omitempty"`
	ModuleID    uint          `json:"module_id"`
	Questions   []QuestionDTO `json:"questions,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
}

type QuizSummaryDTO struct {
	ID          uint       `json:"id"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	MaxAttempts int        `json:"max_attempts"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	ModuleID    uint       `json:"module_id"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ResponseSubmitDTO carries one answer; exactly one of SelectedOptionID and
// TextAnswer is meaningful depending on the question type.
type ResponseSubmitDTO struct {
	QuestionID       uint    `json:"questionId" binding:"required"`
	SelectedOptionID *uint   `json:"selectedOptionId"`
	TextAnswer       *string `json:"textAnswer"`
}

type AttemptSubmitDTO struct {
	Responses []ResponseSubmitDTO `json:"responses" binding:"required,min=1,dive"`
}

type ResponseResultDTO struct {
	QuestionID       uint    `json:"question_id"`
	SelectedOptionID *uint   `json:"selected_option_id,omitempty"`
	TextAnswer       *string `json:"text_answer,omitempty"`
	IsCorrect        *bool   `json:"is_correct,omitempty"`
}

type AttemptResultDTO struct {
	AttemptID   uint                `json:"attemptId"`
	Reference   string              `json:"reference"`
	Score       int                 `json:"score"`
	Graded      int                 `json:"graded"`
	Correct     int                 `json:"correct"`
	Status      string              `json:"status"`
	SubmittedAt *time.Time          `json:"submitted_at,omitempty"`
	Responses   []ResponseResultDTO `json:"responses,omitempty"`
}

type AttemptSummaryDTO struct {
	ID          uint       `json:"id"`
	Reference   string     `json:"reference"`
	QuizID      uint       `json:"quiz_id"`
	Status      string     `json:"status"`
	Score       *int       `json:"score,omitempty"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}
