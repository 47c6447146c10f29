package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) FindByModule(moduleID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("module_id = ?", moduleID).
		Order("`order` ASC").Find(&lessons).Error
	return lessons, err
}

// FindAssignment 仅匹配 type=assignment 的课时
func (r *LessonRepository) FindAssignment(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("id = ? AND type = ?", id, model.LessonAssignment).
		First(&lesson).Error
	return &lesson, err
}

func (r *LessonRepository) FindAssignmentsByModuleIDs(moduleIDs []uint) ([]model.Lesson, error) {
	if len(moduleIDs) == 0 {
		return nil, nil
	}
	var lessons []model.Lesson
	err := r.DB.Where("module_id IN ? AND type = ?", moduleIDs, model.LessonAssignment).
		Find(&lessons).Error
	return lessons, err
}

func (r *LessonRepository) Save(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
