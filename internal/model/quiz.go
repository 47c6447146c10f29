package model

import (
	"time"
)

// swagger:model Quiz
type Quiz struct {
	BaseModel
	CourseID         uint       `gorm:"index;type:bigint unsigned;not null" json:"courseId"`
	LessonID         *uint      `gorm:"index;type:bigint unsigned" json:"lessonId,omitempty"`
	Title            string     `gorm:"size:255;not null" json:"title"`
	Description      string     `gorm:"type:text;default:''" json:"description"`
	TimeLimit        int        `gorm:"default:30" json:"timeLimit"` // 分钟
	PassingScore     float64    `gorm:"default:70" json:"passingScore"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	IsPublished      bool       `gorm:"default:false;index" json:"isPublished"`
	TotalPoints      float64    `gorm:"default:0" json:"totalPoints"` // 派生值，由 CalculateTotalPoints 维护
	ShuffleQuestions bool       `gorm:"default:false" json:"shuffleQuestions"`
	ShowResults      bool       `gorm:"default:true" json:"showResults"`
	AttemptsAllowed  int        `gorm:"default:1" json:"attemptsAllowed"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}
