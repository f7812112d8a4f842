package repository

import (
	"errors"

	"github.com/edustack/analogia/internal/model"
	"gorm.io/gorm"
)

type AnalogySetRepository interface {
	Create(set *model.AnalogySet) error
	Update(set *model.AnalogySet) error
	FindByID(id uint) (*model.AnalogySet, error)
	FindAll() ([]model.AnalogySet, error)
	FindApprovedByModule(moduleID uint) ([]model.AnalogySet, error)
	CreateInteraction(interaction *model.AnalogyInteraction) error
	HasInteraction(setID, userID uint, kind string) (bool, error)
}

type analogySetRepository struct {
	db *gorm.DB
}

func NewAnalogySetRepository(db *gorm.DB) AnalogySetRepository {
	return &analogySetRepository{db: db}
}

func (r *analogySetRepository) Create(set *model.AnalogySet) error {
	return r.db.Create(set).Error
}

func (r *analogySetRepository) Update(set *model.AnalogySet) error {
	return r.db.Save(set).Error
}

func (r *analogySetRepository) FindByID(id uint) (*model.AnalogySet, error) {
	var set model.AnalogySet
	if err := r.db.First(&set, id).Error; err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *analogySetRepository) FindAll() ([]model.AnalogySet, error) {
	var sets []model.AnalogySet
	if err := r.db.Order("created_at DESC").Find(&sets).Error; err != nil {
		return nil, err
	}
	return sets, nil
}

// FindApprovedByModule returns only sets a student may see: generation done
// and lecturer-approved.
func (r *analogySetRepository) FindApprovedByModule(moduleID uint) ([]model.AnalogySet, error) {
	var sets []model.AnalogySet
	err := r.db.Where("module_id = ? AND status = ? AND review_status = ?",
		moduleID, model.GenerationReady, model.ReviewApproved).
		Order("created_at DESC").Find(&sets).Error
	if err != nil {
		return nil, err
	}
	return sets, nil
}

func (r *analogySetRepository) CreateInteraction(interaction *model.AnalogyInteraction) error {
	return r.db.Create(interaction).Error
}

func (r *analogySetRepository) HasInteraction(setID, userID uint, kind string) (bool, error) {
	var interaction model.AnalogyInteraction
	err := r.db.Where("analogy_set_id = ? AND user_id = ? AND kind = ?", setID, userID, kind).
		First(&interaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
