package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	AttemptInProgress = "IN_PROGRESS"
	AttemptSubmitted  = "SUBMITTED"
)

// QuizAttempt is one student's pass through a quiz. Only SUBMITTED attempts
// count toward the per-quiz attempt limit; an attempt stranded IN_PROGRESS
// by a mid-request failure is effectively a free retry.
type QuizAttempt struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Reference   string         `json:"reference" gorm:"uniqueIndex;size:36"`
	QuizID      uint           `json:"quiz_id" gorm:"not null;index"`
	StudentID   uint           `json:"student_id" gorm:"not null;index"`
	Status      string         `json:"status" gorm:"not null;default:'IN_PROGRESS'"`
	Score       *int           `json:"score,omitempty"` // 0-100, nil until submitted
	SubmittedAt *time.Time     `json:"submitted_at,omitempty"`
	Responses   []QuizResponse `json:"responses,omitempty" gorm:"foreignKey:AttemptID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// QuizResponse.IsCorrect is tri-state: true/false for graded MCQ answers,
// nil for SHORT answers which are never auto-graded.
type QuizResponse struct {
	ID               uint           `gorm:"primarykey" json:"id"`
	AttemptID        uint           `json:"attempt_id" gorm:"not null;index"`
	QuestionID       uint           `json:"question_id" gorm:"not null;index"`
	SelectedOptionID *uint          `json:"selected_option_id,omitempty"`
	TextAnswer       *string        `json:"text_answer,omitempty" gorm:"type:text"`
	IsCorrect        *bool          `json:"is_correct,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	DeletedAt        gorm.DeletedAt `gorm:"index" json:"-"`
}
