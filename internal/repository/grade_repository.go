package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) Create(grade *model.Grade) error {
	return r.DB.Create(grade).Error
}

func (r *GradeRepository) FindByID(id uint) (*model.Grade, error) {
	var grade model.Grade
	err := r.DB.First(&grade, id).Error
	return &grade, err
}

func (r *GradeRepository) Save(grade *model.Grade) error {
	return r.DB.Save(grade).Error
}

func (r *GradeRepository) FindPublishedByCourse(courseID uint) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.DB.Where("course_id = ? AND is_published = ?", courseID, true).
		Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) FindPublishedByCourseAndStudent(courseID, studentID uint) ([]model.Grade, error) {
	var grades []model.Grade
	err := r.DB.Where("course_id = ? AND student_id = ? AND is_published = ?", courseID, studentID, true).
		Find(&grades).Error
	return grades, err
}

func (r *GradeRepository) FindByIDs(ids []uint) ([]model.Grade, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var grades []model.Grade
	err := r.DB.Where("id IN ?", ids).Find(&grades).Error
	return grades, err
}
