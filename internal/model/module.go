package model

// swagger:model Module
type Module struct {
	BaseModel
	CourseID    uint   `gorm:"index:idx_modules_course_order;type:bigint unsigned;not null" json:"courseId"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text;default:''" json:"description"`
	Order       int    `gorm:"index:idx_modules_course_order;not null" json:"order"`
	IsPublished bool   `gorm:"default:false" json:"isPublished"`

	Lessons []Lesson `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}
