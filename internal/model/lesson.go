package model

import (
	"time"
)

type LessonType string

const (
	LessonVideo      LessonType = "video"
	LessonText       LessonType = "text"
	LessonPDF        LessonType = "pdf"
	LessonQuiz       LessonType = "quiz"
	LessonAssignment LessonType = "assignment"
)

// swagger:model Lesson
type Lesson struct {
	BaseModel
	ModuleID    uint       `gorm:"index:idx_lessons_module_order;type:bigint unsigned;not null" json:"moduleId"`
	Title       string     `gorm:"size:255;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	Order       int        `gorm:"index:idx_lessons_module_order;not null" json:"order"`
	Type        LessonType `gorm:"type:varchar(20);default:'text'" json:"type"`
	Duration    int        `gorm:"default:0" json:"duration"` // 分钟
	IsPublished bool       `gorm:"default:false" json:"isPublished"`

	// 按类型的条件字段
	VideoURL string     `gorm:"size:512" json:"videoUrl,omitempty"`
	FileURL  string     `gorm:"size:512" json:"fileUrl,omitempty"`
	QuizID   *uint      `gorm:"type:bigint unsigned" json:"quizId,omitempty"`
	DueDate  *time.Time `json:"dueDate,omitempty"` // 作业截止时间
}

func (Lesson) TableName() string {
	return "lessons"
}
