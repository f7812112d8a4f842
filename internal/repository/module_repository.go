package repository

import (
	"github.com/edustack/analogia/internal/model"
	"gorm.io/gorm"
)

type ModuleRepository interface {
	Create(module *model.Module) error
	FindByID(id uint) (*model.Module, error)
	FindByCode(code string) (*model.Module, error)
	FindAll() ([]model.Module, error)
}

type moduleRepository struct {
	db *gorm.DB
}

func NewModuleRepository(db *gorm.DB) ModuleRepository {
	return &moduleRepository{db: db}
}

func (r *moduleRepository) Create(module *model.Module) error {
	return r.db.Create(module).Error
}

func (r *moduleRepository) FindByID(id uint) (*model.Module, error) {
	var module model.Module
	if err := r.db.First(&module, id).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) FindByCode(code string) (*model.Module, error) {
	var module model.Module
	if err := r.db.Where("code = ?", code).First(&module).Error; err != nil {
		return nil, err
	}
	return &module, nil
}

func (r *moduleRepository) FindAll() ([]model.Module, error) {
	var modules []model.Module
	if err := r.db.Order("code ASC").Find(&modules).Error; err != nil {
		return nil, err
	}
	return modules, nil
}
