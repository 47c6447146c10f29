package repository

import (
	"time"

	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type VerificationCodeRepository struct {
	DB *gorm.DB
}

func NewVerificationCodeRepository(db *gorm.DB) *VerificationCodeRepository {
	return &VerificationCodeRepository{DB: db}
}

// Replace 同一用户同一类型只保留一条有效验证码
func (r *VerificationCodeRepository) Replace(code *model.VerificationCode) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().
			Where("user_id = ? AND type = ?", code.UserID, code.Type).
			Delete(&model.VerificationCode{}).Error; err != nil {
			return err
		}
		return tx.Create(code).Error
	})
}

func (r *VerificationCodeRepository) FindActive(userID uint, typ model.VerificationType) (*model.VerificationCode, error) {
	var code model.VerificationCode
	err := r.DB.Where("user_id = ? AND type = ? AND is_used = ?", userID, typ, false).
		First(&code).Error
	return &code, err
}

func (r *VerificationCodeRepository) Save(code *model.VerificationCode) error {
	return r.DB.Save(code).Error
}

// DeleteExpired 清理已过期的验证码
func (r *VerificationCodeRepository) DeleteExpired() error {
	return r.DB.Unscoped().Where("expires_at < ?", time.Now()).
		Delete(&model.VerificationCode{}).Error
}
