package service

import (
	"testing"

	"github.com/edustack/analogia/internal/apperr"
	"github.com/edustack/analogia/internal/dto"
	"github.com/edustack/analogia/internal/model"
	"github.com/edustack/analogia/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newModuleService(db *gorm.DB) ModuleService {
	return NewModuleService(repository.NewModuleRepository(db), repository.NewEnrollmentRepository(db))
}

func TestValidModuleCode(t *testing.T) {
	valid := []string{"CSC7099", "ABC", "A1B2C3D4E5", "123"}
	for _, code := range valid {
		assert.True(t, ValidModuleCode(code), code)
	}
	invalid := []string{"", "AB", "abc123", "CSC-7099", "TOOLONGCODE1", "csc7099", "CSC 7099"}
	for _, code := range invalid {
		assert.False(t, ValidModuleCode(code), code)
	}
}

func TestModuleCreateRejectsInvalidCode(t *testing.T) {
	svc := newModuleService(setupTestDB(t))
	_, err := svc.Create(dto.ModuleCreateDTO{Code: "abc123", Name: "Lowercase"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestModuleCreateDuplicateCodeConflicts(t *testing.T) {
	svc := newModuleService(setupTestDB(t))
	_, err := svc.Create(dto.ModuleCreateDTO{Code: "CSC7099", Name: "Concurrency"})
	require.NoError(t, err)
	_, err = svc.Create(dto.ModuleCreateDTO{Code: "CSC7099", Name: "Concurrency again"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

// racingModuleRepository simulates a second creator winning between the
// code pre-check and the insert: FindByCode sees nothing, Create hits the
// unique index.
type racingModuleRepository struct {
	repository.ModuleRepository
}

func (r *racingModuleRepository) FindByCode(code string) (*model.Module, error) {
	return nil, gorm.ErrRecordNotFound
}

func (r *racingModuleRepository) Create(module *model.Module) error {
	return gorm.ErrDuplicatedKey
}

func TestModuleCreateRaceLoserConflicts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewModuleService(&racingModuleRepository{}, repository.NewEnrollmentRepository(db))
	_, err := svc.Create(dto.ModuleCreateDTO{Code: "CSC7099", Name: "Concurrency"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
}

func TestModuleRepositoryTranslatesDuplicateCode(t *testing.T) {
	repo := repository.NewModuleRepository(setupTestDB(t))
	require.NoError(t, repo.Create(&model.Module{Code: "CSC7099", Name: "Concurrency"}))
	err := repo.Create(&model.Module{Code: "CSC7099", Name: "Concurrency again"})
	require.Error(t, err)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestEnroll(t *testing.T) {
	db := setupTestDB(t)
	svc := newModuleService(db)
	_, err := svc.Create(dto.ModuleCreateDTO{Code: "CSC7099", Name: "Concurrency"})
	require.NoError(t, err)
	student := &model.User{Email: "student@demo.local", Role: model.RoleStudent}
	require.NoError(t, db.Create(student).Error)

	enrollment, err := svc.Enroll("csc7099", student.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentActive, enrollment.Status)

	_, err = svc.Enroll("CSC7099", student.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))

	_, err = svc.Enroll("NOPE999", student.ID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}
