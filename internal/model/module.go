package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive  = "ACTIVE"
	EnrollmentInvited = "INVITED"
)

type Module struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Code        string         `json:"code" gorm:"not null;uniqueIndex"` // e.g. "CSC7099"
	Name        string         `json:"name" gorm:"not null"`
	Description string         `json:"description,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// ModuleEnrollment gates student visibility of a module's analogies and
// quizzes. Only ACTIVE enrollments grant access.
type ModuleEnrollment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	ModuleID  uint           `json:"module_id" gorm:"not null;index:idx_enrollment_module_user,unique"`
	UserID    uint           `json:"user_id" gorm:"not null;index:idx_enrollment_module_user,unique"`
	Status    string         `json:"status" gorm:"not null;default:'INVITED'"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
