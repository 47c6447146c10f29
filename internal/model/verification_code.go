package model

import (
	"time"
)

type VerificationType string

const (
	VerifyEmail VerificationType = "email"
	VerifyPhone VerificationType = "phone"
)

// 校验失败原因
const (
	CodeValid       = "valid"
	CodeExpired     = "expired"
	CodeUsed        = "used"
	CodeMaxAttempts = "maxAttempts"
	CodeInvalid     = "invalid"
)

// VerificationCode 邮箱/手机验证码，一个用户每种类型同时只保留一条
type VerificationCode struct {
	BaseModel
	UserID      uint             `gorm:"index;type:bigint unsigned;not null" json:"userId"`
	Type        VerificationType `gorm:"type:varchar(10);not null" json:"type"`
	Code        string           `gorm:"size:10;not null" json:"-"`
	ExpiresAt   time.Time        `gorm:"not null" json:"expiresAt"`
	IsUsed      bool             `gorm:"default:false" json:"isUsed"`
	Attempts    int              `gorm:"default:0" json:"attempts"`
	MaxAttempts int              `gorm:"default:5" json:"maxAttempts"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}

// Validate 校验提交的验证码，错误尝试会累加 Attempts（调用方负责保存）
func (v *VerificationCode) Validate(submitted string) string {
	if time.Now().After(v.ExpiresAt) {
		return CodeExpired
	}
	if v.IsUsed {
		return CodeUsed
	}
	if v.Attempts >= v.MaxAttempts {
		return CodeMaxAttempts
	}
	if v.Code != submitted {
		v.Attempts++
		return CodeInvalid
	}
	return CodeValid
}
