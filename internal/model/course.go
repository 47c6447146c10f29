package model

import (
	"time"

	"github.com/gosimple/slug"
)

type CourseStatus string

const (
	CourseDraft     CourseStatus = "draft"
	CoursePublished CourseStatus = "published"
	CourseArchived  CourseStatus = "archived"
)

// swagger:model Course
type Course struct {
	BaseModel
	Title        string       `gorm:"size:255;not null" json:"title"`
	Description  string       `gorm:"type:text;not null" json:"description"`
	Slug         string       `gorm:"size:255;uniqueIndex" json:"slug"`
	InstructorID uint         `gorm:"index;type:bigint unsigned;not null" json:"instructorId"`
	CoverImage   string       `gorm:"size:255;default:''" json:"coverImage"`
	Status       CourseStatus `gorm:"type:varchar(20);default:'draft';index" json:"status"`
	StartDate    time.Time    `gorm:"not null" json:"startDate"`
	EndDate      *time.Time   `json:"endDate,omitempty"`

	Modules []Module `gorm:"foreignKey:CourseID" json:"modules,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// GenerateSlug 根据标题重算 slug，在保存前显式调用
func (c *Course) GenerateSlug() {
	c.Slug = slug.Make(c.Title)
}
