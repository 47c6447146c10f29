package model

import (
	"time"
)

type GradeItemType string

const (
	GradeItemQuiz          GradeItemType = "quiz"
	GradeItemAssignment    GradeItemType = "assignment"
	GradeItemExam          GradeItemType = "exam"
	GradeItemProject       GradeItemType = "project"
	GradeItemParticipation GradeItemType = "participation"
)

// Grade 某个学生在某个评分项上的成绩。itemId+itemType 是跨表的多态引用，
// 数据库层不做外键约束
type Grade struct {
	BaseModel
	StudentID   uint          `gorm:"index:idx_grades_student_course;type:bigint unsigned;not null" json:"studentId"`
	CourseID    uint          `gorm:"index:idx_grades_student_course;index:idx_grades_course_type;type:bigint unsigned;not null" json:"courseId"`
	ItemID      uint          `gorm:"index:idx_grades_item;type:bigint unsigned;not null" json:"itemId"`
	ItemType    GradeItemType `gorm:"index:idx_grades_course_type;index:idx_grades_item;type:varchar(20);not null" json:"itemType"`
	Score       float64       `gorm:"not null" json:"score"`
	MaxScore    float64       `gorm:"not null" json:"maxScore"`
	Percentage  float64       `json:"percentage"` // 派生值，保存前由 ComputePercentage 填充
	Feedback    string        `gorm:"type:text" json:"feedback,omitempty"`
	GradedBy    uint          `gorm:"type:bigint unsigned;not null" json:"gradedBy"`
	GradedAt    time.Time     `json:"gradedAt"`
	Weight      float64       `gorm:"default:1" json:"weight"`
	Category    string        `gorm:"size:100;default:'uncategorized'" json:"category"`
	IsPublished bool          `gorm:"default:false" json:"isPublished"`
}

func (Grade) TableName() string {
	return "grades"
}

// ComputePercentage 保存前显式调用
func (g *Grade) ComputePercentage() {
	if g.MaxScore > 0 {
		g.Percentage = g.Score / g.MaxScore * 100
	}
}
