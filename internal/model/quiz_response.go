package model

import (
	"time"
)

// QuizResponse 一次答题中针对单个题目的作答；(quizAttemptId, questionId) 唯一，重复保存按更新处理
type QuizResponse struct {
	BaseModel
	QuizAttemptID    uint       `gorm:"uniqueIndex:idx_responses_attempt_question;type:bigint unsigned;not null" json:"quizAttemptId"`
	QuestionID       uint       `gorm:"uniqueIndex:idx_responses_attempt_question;type:bigint unsigned;not null" json:"questionId"`
	SelectedOptionID *uint      `gorm:"type:bigint unsigned" json:"selectedOptionId,omitempty"`
	TextResponse     string     `gorm:"type:text" json:"textResponse,omitempty"`
	IsCorrect        *bool      `json:"isCorrect,omitempty"` // 文本题人工评分前为空
	PointsAwarded    float64    `gorm:"default:0" json:"pointsAwarded"`
	MaxPoints        float64    `gorm:"not null" json:"maxPoints"` // 保存时从题目分值复制
	GradedBy         *uint      `gorm:"type:bigint unsigned" json:"gradedBy,omitempty"`
	GradedAt         *time.Time `json:"gradedAt,omitempty"`
	Feedback         string     `gorm:"type:text" json:"feedback,omitempty"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}
