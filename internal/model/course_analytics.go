package model

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type ModuleCompletionRate struct {
	ModuleID       uint    `json:"moduleId"`
	CompletionRate float64 `json:"completionRate"`
}

type ModuleCompletionRateList []ModuleCompletionRate

func (l ModuleCompletionRateList) Value() (driver.Value, error) {
	if l == nil {
		l = ModuleCompletionRateList{}
	}
	return json.Marshal(l)
}

func (l *ModuleCompletionRateList) Scan(value interface{}) error {
	return scanJSON(value, l)
}

type QuizAttemptStats struct {
	TotalAttempts int     `gorm:"default:0" json:"totalAttempts"`
	AverageScore  float64 `gorm:"default:0" json:"averageScore"`
	PassRate      float64 `gorm:"default:0" json:"passRate"`
}

type AssignmentStats struct {
	TotalSubmitted  int     `gorm:"default:0" json:"totalSubmitted"`
	AverageScore    float64 `gorm:"default:0" json:"averageScore"`
	LateSubmissions int     `gorm:"default:0" json:"lateSubmissions"`
}

// CourseAnalytics 每门课程一份的派生统计快照。可随时用其余集合完整重建，
// 每次重算整体覆盖，不做增量更新
type CourseAnalytics struct {
	BaseModel
	CourseID              uint                     `gorm:"uniqueIndex;type:bigint unsigned;not null" json:"courseId"`
	TotalStudents         int                      `gorm:"default:0" json:"totalStudents"`
	AverageCompletion     float64                  `gorm:"default:0" json:"averageCompletion"`
	AverageScore          float64                  `gorm:"default:0" json:"averageScore"`
	LastUpdated           time.Time                `json:"lastUpdated"`
	ModuleCompletionRates ModuleCompletionRateList `gorm:"type:json" json:"moduleCompletionRates"`
	QuizAttemptStats      QuizAttemptStats         `gorm:"embedded;embeddedPrefix:quiz_" json:"quizAttemptStats"`
	AssignmentStats       AssignmentStats          `gorm:"embedded;embeddedPrefix:assignment_" json:"assignmentStats"`
}

func (CourseAnalytics) TableName() string {
	return "course_analytics"
}
