package repository

import (
	"errors"

	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type AnalyticsRepository struct {
	DB *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) *AnalyticsRepository {
	return &AnalyticsRepository{DB: db}
}

func (r *AnalyticsRepository) FindByCourse(courseID uint) (*model.CourseAnalytics, error) {
	var analytics model.CourseAnalytics
	err := r.DB.Where("course_id = ?", courseID).First(&analytics).Error
	return &analytics, err
}

// GetOrCreate 懒创建：不存在时写入一条零值快照
func (r *AnalyticsRepository) GetOrCreate(courseID uint) (*model.CourseAnalytics, error) {
	analytics, err := r.FindByCourse(courseID)
	if err == nil {
		return analytics, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	created := &model.CourseAnalytics{CourseID: courseID}
	if err := r.DB.Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

func (r *AnalyticsRepository) Save(analytics *model.CourseAnalytics) error {
	return r.DB.Save(analytics).Error
}
