package model

import (
	"time"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in_progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// QuizAttempt 学生的一次答题；(quizId, studentId, attemptNumber) 唯一
type QuizAttempt struct {
	BaseModel
	QuizID        uint          `gorm:"uniqueIndex:idx_attempts_quiz_student_num;type:bigint unsigned;not null" json:"quizId"`
	StudentID     uint          `gorm:"uniqueIndex:idx_attempts_quiz_student_num;type:bigint unsigned;not null" json:"studentId"`
	AttemptNumber int           `gorm:"uniqueIndex:idx_attempts_quiz_student_num;default:1" json:"attemptNumber"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       *time.Time    `json:"endTime,omitempty"`
	Score         float64       `gorm:"default:0" json:"score"` // 百分比，两位小数
	Status        AttemptStatus `gorm:"type:varchar(20);default:'in_progress';index" json:"status"`
	TimeSpent     int           `gorm:"default:0" json:"timeSpent"` // 秒
	IsPassed      bool          `gorm:"default:false" json:"isPassed"`

	Responses []QuizResponse `gorm:"foreignKey:QuizAttemptID" json:"responses,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
