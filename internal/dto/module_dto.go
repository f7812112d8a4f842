package dto

import "time"

type ModuleCreateDTO struct {
	Code        string `json:"code" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type ModuleDTO struct {
	ID          uint      `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type EnrollmentDTO struct {
	ID       uint   `json:"id"`
	ModuleID uint   `json:"module_id"`
	UserID   uint   `json:"user_id"`
	Status   string `json:"status"`
}
