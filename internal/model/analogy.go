package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Generation status of an AnalogySet. Transitions only processing→ready or
// processing→failed.
const (
	GenerationProcessing = "processing"
	GenerationReady      = "ready"
	GenerationFailed     = "failed"
)

// Lecturer review status, independent of generation status.
const (
	ReviewDraft    = "DRAFT"
	ReviewApproved = "APPROVED"
	ReviewChanges  = "CHANGES"
)

const (
	InteractionView = "VIEW"
	InteractionLike = "LIKE"
)

// TopicEntry is one {topic, analogy, feedback} element of TopicsJSON.
// Feedback is lecturer-only and is stripped on student read paths.
type TopicEntry struct {
	Topic    string `json:"topic"`
	Analogy  string `json:"analogy"`
	Feedback string `json:"feedback,omitempty"`
}

// AnalogySet is one generation job. The row is created in `processing`
// before the external call so a failure still leaves a durable trace, then
// mutated once by the generation result and independently by review actions.
type AnalogySet struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Title        string         `json:"title"`
	Status       string         `json:"status" gorm:"not null;default:'processing'"`
	ReviewStatus string         `json:"review_status" gorm:"not null;default:'DRAFT'"`
	OwnerRole    string         `json:"owner_role"`
	Source       string         `json:"source"` // "concept" or "slides"
	SourceText   string         `json:"source_text" gorm:"type:text"`
	TopicsJSON   datatypes.JSON `json:"topics_json,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty" gorm:"type:text"`
	ApprovedAt   *time.Time     `json:"approved_at,omitempty"`
	ModuleID     *uint          `json:"module_id,omitempty" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// AnalogyInteraction records a student viewing or liking a visible set.
type AnalogyInteraction struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	AnalogySetID uint           `json:"analogy_set_id" gorm:"not null;index"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	Kind         string         `json:"kind" gorm:"not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
