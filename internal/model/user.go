package model

import (
	"time"
)

type UserRole string

const (
	Student    UserRole = "student"
	Tutor      UserRole = "tutor"
	Instructor UserRole = "instructor"
	Admin      UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Firstname            string     `gorm:"size:100;not null" json:"firstname"`
	Lastname             string     `gorm:"size:100;not null" json:"lastname"`
	Email                string     `gorm:"size:100;unique;not null" json:"email"`
	Password             string     `gorm:"size:100;not null" json:"-"`
	Phonenumber          string     `gorm:"size:30" json:"phonenumber,omitempty"`
	Role                 UserRole   `gorm:"type:varchar(20);default:'student'" json:"role"`
	EmailVerified        bool       `gorm:"default:false" json:"emailVerified"`
	PhoneVerified        bool       `gorm:"default:false" json:"phoneVerified"`
	IsVerified           bool       `gorm:"default:false" json:"isVerified"`
	ResetPasswordToken   string     `gorm:"size:64" json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`
	LastLogin            *time.Time `json:"lastLogin,omitempty"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsAdmin() bool {
	return u.Role == Admin
}

// CanAuthor 课程创作权限（教师与管理员）
func (u *User) CanAuthor() bool {
	return u.Role == Instructor || u.Role == Admin
}
