package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	QuizDraft     = "DRAFT"
	QuizPublished = "PUBLISHED"
	QuizArchived  = "ARCHIVED"
)

const (
	QuestionMCQ   = "MCQ"
	QuestionShort = "SHORT"
)

const (
	MinAttempts = 1
	MaxAttempts = 5
)

type Quiz struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Title       string         `json:"title" gorm:"not null"`
	Status      string         `json:"status" gorm:"not null;default:'DRAFT'"`
	Visibility  string         `json:"visibility" gorm:"default:'MODULE'"`
	MaxAttempts int            `json:"max_attempts" gorm:"not null;default:1"`
	DueAt       *time.Time     `json:"due_at,omitempty"`
	PublishedAt *time.Time     `json:"published_at,omitempty"`
	OwnerID     uint           `json:"owner_id" gorm:"not null;index"`
	ModuleID    uint           `json:"module_id" gorm:"not null;index"`
	Questions   []Question     `json:"questions,omitempty" gorm:"foreignKey:QuizID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type Question struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuizID     uint           `json:"quiz_id" gorm:"not null;index"`
	Type       string         `json:"type" gorm:"not null"` // MCQ or SHORT
	Difficulty string         `json:"difficulty" gorm:"default:'MEDIUM'"`
	OrderIndex int            `json:"order_index" gorm:"not null"`
	Prompt     string         `json:"prompt" gorm:"type:text;not null"`
	Options    []Option       `json:"options,omitempty" gorm:"foreignKey:QuestionID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

type Option struct {
	ID         uint           `gorm:"primarykey" json:"id"`
	QuestionID uint           `json:"question_id" gorm:"not null;index"`
	Text       string         `json:"text" gorm:"not null"`
	IsCorrect  bool           `json:"is_correct"`
	OrderIndex int            `json:"order_index" gorm:"not null"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// ClampMaxAttempts forces maxAttempts into [MinAttempts, MaxAttempts].
func ClampMaxAttempts(n int) int {
	if n < MinAttempts {
		return MinAttempts
	}
	if n > MaxAttempts {
		return MaxAttempts
	}
	return n
}
