package service

import (
	"errors"
	"regexp"
	"strings"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/jinzhu/copier"
	"gorm.io/gorm"
)

// Module codes are 3-10 uppercase alphanumerics, e.g. "CSC7099".
var moduleCodeRe = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

type ModuleService interface {
	Create(req dto.ModuleCreateDTO) (*dto.ModuleDTO, error)
	List() ([]dto.ModuleDTO, error)
	Enroll(code string, studentID uint) (*dto.EnrollmentDTO, error)
}

type moduleService struct {
	modules     repository.ModuleRepository
	enrollments repository.EnrollmentRepository
}

func NewModuleService(modules repository.ModuleRepository, enrollments repository.EnrollmentRepository) ModuleService {
	return &moduleService{modules: modules, enrollments: enrollments}
}

func (s *moduleService) Create(req dto.ModuleCreateDTO) (*dto.ModuleDTO, error) {
	code := strings.TrimSpace(req.Code)
	if !ValidModuleCode(code) {
		return nil, apperr.Validation("code must be 3-10 uppercase letters or digits")
	}
	if _, err := s.modules.FindByCode(code); err == nil {
		return nil, apperr.Conflict("module code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check module code", err)
	}

	module := &model.Module{
		Code:        code,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.modules.Create(module); err != nil {
		// Backstop for two creates racing past the FindByCode check; the
		// unique index on code rejects the loser.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("module code already exists")
		}
		return nil, apperr.Internal("failed to create module", err)
	}
	return s.toDTO(module)
}

func (s *moduleService) List() ([]dto.ModuleDTO, error) {
	modules, err := s.modules.FindAll()
	if err != nil {
		return nil, apperr.Internal("failed to list modules", err)
	}
	out := make([]dto.ModuleDTO, 0, len(modules))
	for i := range modules {
		d, err := s.toDTO(&modules[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, nil
}

func (s *moduleService) Enroll(code string, studentID uint) (*dto.EnrollmentDTO, error) {
	module, err := s.modules.FindByCode(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("module not found")
		}
		return nil, apperr.Internal("failed to resolve module", err)
	}
	if _, err := s.enrollments.FindByModuleAndUser(module.ID, studentID); err == nil {
		return nil, apperr.Conflict("already enrolled in this module")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Internal("failed to check enrollment", err)
	}

	enrollment := &model.ModuleEnrollment{
		ModuleID: module.ID,
		UserID:   studentID,
		Status:   model.EnrollmentActive,
	}
	if err := s.enrollments.Create(enrollment); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Conflict("already enrolled in this module")
		}
		return nil, apperr.Internal("failed to create enrollment", err)
	}
	var resp dto.EnrollmentDTO
	if err := copier.Copy(&resp, enrollment); err != nil {
		return nil, apperr.Internal("failed to map enrollment", err)
	}
	return &resp, nil
}

func (s *moduleService) toDTO(module *model.Module) (*dto.ModuleDTO, error) {
	var resp dto.ModuleDTO
	if err := copier.Copy(&resp, module); err != nil {
		return nil, apperr.Internal("failed to map module", err)
	}
	return &resp, nil
}

// ValidModuleCode reports whether code satisfies the module code format.
func ValidModuleCode(code string) bool {
	return moduleCodeRe.MatchString(code)
}
