package model

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	ShortAnswer    QuestionType = "short_answer"
	Essay          QuestionType = "essay"
)

// swagger:model Question
type Question struct {
	BaseModel
	QuizID      uint         `gorm:"index:idx_questions_quiz_order;type:bigint unsigned;not null" json:"quizId"`
	Text        string       `gorm:"type:text;not null" json:"text"`
	Type        QuestionType `gorm:"type:varchar(20);not null" json:"type"`
	Points      float64      `gorm:"not null;default:1" json:"points"`
	Order       int          `gorm:"index:idx_questions_quiz_order;not null" json:"order"`
	Explanation string       `gorm:"type:text;default:''" json:"explanation"`
	// 简答/论述题的参考答案
	SampleAnswer string `gorm:"type:text" json:"sampleAnswer,omitempty"`
	// 判断题的正确答案
	CorrectAnswer *bool `json:"correctAnswer,omitempty"`

	Options []QuestionOption `gorm:"foreignKey:QuestionID" json:"options,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// IsAutoGradable 选择类题型自动评分，文本类题型留待人工
func (q *Question) IsAutoGradable() bool {
	return q.Type == MultipleChoice || q.Type == TrueFalse
}
