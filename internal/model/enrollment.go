package model

import (
	"database/sql/driver"
	"encoding/json"
)

type EnrollmentStatus string

const (
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCompleted EnrollmentStatus = "completed"
	EnrollmentDropped   EnrollmentStatus = "dropped"
)

type ModuleProgress struct {
	ModuleID             uint    `json:"moduleId"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

type ModuleProgressList []ModuleProgress

func (l ModuleProgressList) Value() (driver.Value, error) {
	if l == nil {
		l = ModuleProgressList{}
	}
	return json.Marshal(l)
}

func (l *ModuleProgressList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

// Enrollment 学生选课及进度
type Enrollment struct {
	BaseModel
	StudentID      uint               `gorm:"uniqueIndex:idx_enrollments_student_course;type:bigint unsigned;not null" json:"studentId"`
	CourseID       uint               `gorm:"uniqueIndex:idx_enrollments_student_course;index;type:bigint unsigned;not null" json:"courseId"`
	Status         EnrollmentStatus   `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Progress       float64            `gorm:"default:0" json:"progress"` // 0-100
	ModuleProgress ModuleProgressList `gorm:"type:json" json:"moduleProgress"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// FindModuleProgress 返回指定模块的进度条目，不存在时返回 nil
func (e *Enrollment) FindModuleProgress(moduleID uint) *ModuleProgress {
	for i := range e.ModuleProgress {
		if e.ModuleProgress[i].ModuleID == moduleID {
			return &e.ModuleProgress[i]
		}
	}
	return nil
}
