package dto

import "time"

// GenerateAnalogiesRequest triggers one generation job producing a single
// topic/analogy pair.
type GenerateAnalogiesRequest struct {
	Concept    string `json:"concept" binding:"required"`
	Notes      string `json:"notes" binding:"required"`
	Title      string `json:"title"`
	ModuleCode string `json:"moduleCode"`
}

type GenerateAnalogiesResponse struct {
	ID     uint   `json:"id"`
	Status string `json:"status"`
}

type TopicDTO struct {
	Topic    string `json:"topic"`
	Analogy  string `json:"analogy"`
	Feedback string `json:"feedback,omitempty"`
}

type AnalogySetDTO struct {
	ID           uint       `json:"id"`
	Title        string     `json:"title"`
	Status       string     `json:"status"`
	ReviewStatus string     `json:"review_status"`
	OwnerRole    string     `json:"owner_role,omitempty"`
	Source       string     `json:"source,omitempty"`
	SourceText   string     `json:"source_text,omitempty"`
	Topics       []TopicDTO `json:"topics,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	ApprovedAt   *time.Time `json:"approved_at,omitempty"`
	ModuleID     *uint      `json:"module_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TopicFeedbackDTO addresses one topic entry by position.
type TopicFeedbackDTO struct {
	Index    int    `json:"index" binding:"min=0"`
	Feedback string `json:"feedback"`
}

type UpdateFeedbackRequest struct {
	Entries []TopicFeedbackDTO `json:"entries" binding:"required,dive"`
}

type InteractionRequest struct {
	Kind string `json:"kind" binding:"required,oneof=VIEW LIKE"`
}

type GenerateImageRequest struct {
	AnalogyText string `json:"analogyText" binding:"required"`
	Topic       string `json:"topic"`
	Style       string `json:"style"`
}

type GenerateImageResponse struct {
	DataURL string `json:"dataUrl"`
}
