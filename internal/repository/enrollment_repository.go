package repository

import (
	"errors"

	"github.com/edustack/analogia/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	Create(enrollment *model.ModuleEnrollment) error
	FindByModuleAndUser(moduleID, userID uint) (*model.ModuleEnrollment, error)
	HasActive(moduleID, userID uint) (bool, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) Create(enrollment *model.ModuleEnrollment) error {
	return r.db.Create(enrollment).Error
}

func (r *enrollmentRepository) FindByModuleAndUser(moduleID, userID uint) (*model.ModuleEnrollment, error) {
	var enrollment model.ModuleEnrollment
	err := r.db.Where("module_id = ? AND user_id = ?", moduleID, userID).First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// HasActive reports whether userID holds an ACTIVE enrollment in moduleID.
// Every student-facing read path goes through this check.
func (r *enrollmentRepository) HasActive(moduleID, userID uint) (bool, error) {
	var enrollment model.ModuleEnrollment
	err := r.db.Where("module_id = ? AND user_id = ? AND status = ?",
		moduleID, userID, model.EnrollmentActive).First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
