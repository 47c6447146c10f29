package model

// swagger:model QuestionOption
type QuestionOption struct {
	BaseModel
	QuestionID  uint   `gorm:"index:idx_options_question_order;type:bigint unsigned;not null" json:"questionId"`
	Text        string `gorm:"type:text;not null" json:"text"`
	IsCorrect   bool   `gorm:"not null;default:false" json:"isCorrect"`
	Order       int    `gorm:"index:idx_options_question_order;not null" json:"order"`
	Explanation string `gorm:"type:text" json:"explanation,omitempty"`
}

func (QuestionOption) TableName() string {
	return "question_options"
}
