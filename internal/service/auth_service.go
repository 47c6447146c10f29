package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	refreshTokenPrefix   = "refresh:"
	verifyThrottlePrefix = "verify_throttle:"

	verificationCodeTTL = 15 * time.Minute
	resendThrottle      = 60 * time.Second
	resetTokenTTL       = time.Hour
)

// AuthService 注册、登录、令牌刷新与账号验证。
// 刷新令牌存放在 Redis 中，登出与轮换时撤销
type AuthService struct {
	UserRepo *repository.UserRepository
	CodeRepo *repository.VerificationCodeRepository
	Email    *EmailService
	Redis    *redis.Client
	JWT      config.JWTConfig
	Frontend config.FrontendConfig
}

func NewAuthService(
	userRepo *repository.UserRepository,
	codeRepo *repository.VerificationCodeRepository,
	email *EmailService,
	rdb *redis.Client,
	jwtCfg config.JWTConfig,
	frontend config.FrontendConfig,
) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		CodeRepo: codeRepo,
		Email:    email,
		Redis:    rdb,
		JWT:      jwtCfg,
		Frontend: frontend,
	}
}

type RegisterRequest struct {
	Firstname   string         `json:"firstname" binding:"required"`
	Lastname    string         `json:"lastname" binding:"required"`
	Email       string         `json:"email" binding:"required,email"`
	Password    string         `json:"password" binding:"required,min=8"`
	Phonenumber string         `json:"phonenumber"`
	Role        model.UserRole `json:"role"`
}

// TokenPair 访问令牌 + 刷新令牌
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*model.User, *TokenPair, error) {
	if _, err := s.UserRepo.FindByEmail(req.Email); err == nil {
		return nil, nil, util.ErrEmailRegistered
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, err
	}

	role := req.Role
	if role == "" {
		role = model.Student
	}

	user := &model.User{
		Firstname:   req.Firstname,
		Lastname:    req.Lastname,
		Email:       req.Email,
		Password:    string(hashed),
		Phonenumber: req.Phonenumber,
		Role:        role,
	}
	if err := s.UserRepo.Create(user); err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, nil, util.ErrEmailRegistered
		}
		return nil, nil, err
	}

	// 注册即发送验证码；发信失败不回滚注册，用户可稍后重发
	if err := s.issueVerificationCode(ctx, user); err != nil {
		zap.L().Warn("发送注册验证邮件失败", zap.Uint("userId", user.ID), zap.Error(err))
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.User, *TokenPair, error) {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, util.ErrUserNotFound
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, util.ErrInvalidCredentials
	}

	if err := s.UserRepo.UpdateLastLogin(user.ID); err != nil {
		zap.L().Warn("更新最近登录时间失败", zap.Uint("userId", user.ID), zap.Error(err))
	}

	tokens, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh 校验刷新令牌并轮换：旧令牌立即撤销，签发新的一对
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := util.ParseJWT(refreshToken, s.JWT.Secret)
	if err != nil {
		return nil, util.ErrInvalidCredentials
	}

	key := refreshTokenPrefix + refreshToken
	if err := s.Redis.Get(ctx, key).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := s.Redis.Del(ctx, key).Err(); err != nil {
		return nil, err
	}

	user, err := s.UserRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return s.issueTokens(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.Redis.Del(ctx, refreshTokenPrefix+refreshToken).Err()
}

// RequestEmailVerification 重发验证码，60 秒内只允许一次
func (s *AuthService) RequestEmailVerification(ctx context.Context, userID uint) error {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrUserNotFound
		}
		return err
	}
	if user.EmailVerified {
		return util.NewValidationError("Email is already verified")
	}

	throttleKey := fmt.Sprintf("%s%d", verifyThrottlePrefix, userID)
	ok, err := s.Redis.SetNX(ctx, throttleKey, 1, resendThrottle).Result()
	if err != nil {
		return err
	}
	if !ok {
		return util.NewValidationError("Please wait before requesting another verification code")
	}

	return s.issueVerificationCode(ctx, user)
}

// VerifyEmailResult 验证码校验结果，Reason 为 model.CodeValid 时验证成功
type VerifyEmailResult struct {
	Reason       string
	AttemptsLeft int
	User         *model.User
}

func (s *AuthService) VerifyEmail(ctx context.Context, userID uint, code string) (*VerifyEmailResult, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	if user.EmailVerified {
		return nil, util.NewValidationError("Email is already verified")
	}

	record, err := s.CodeRepo.FindActive(userID, model.VerifyEmail)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("Verification code not found, please request a new one")
		}
		return nil, err
	}

	reason := record.Validate(code)
	if reason == model.CodeInvalid {
		// 错误尝试计数需要落库
		if err := s.CodeRepo.Save(record); err != nil {
			return nil, err
		}
	}
	if reason != model.CodeValid {
		return &VerifyEmailResult{
			Reason:       reason,
			AttemptsLeft: record.MaxAttempts - record.Attempts,
		}, nil
	}

	record.IsUsed = true
	if err := s.CodeRepo.Save(record); err != nil {
		return nil, err
	}

	user.EmailVerified = true
	if user.PhoneVerified || user.Phonenumber == "" {
		user.IsVerified = true
	}
	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}

	return &VerifyEmailResult{Reason: model.CodeValid, User: user}, nil
}

// ForgotPassword 发起重置流程。邮箱不存在时同样静默成功，避免枚举账号
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.UserRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		return err
	}
	token := hex.EncodeToString(raw)
	hashed := hashResetToken(token)

	expires := time.Now().Add(resetTokenTTL)
	user.ResetPasswordToken = hashed
	user.ResetPasswordExpires = &expires
	if err := s.UserRepo.Save(user); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.Frontend.BaseURL, token)
	if err := s.Email.SendPasswordReset(user.Email, user.Firstname, resetURL); err != nil {
		// 发信失败时清掉 token，用户可重新发起
		user.ResetPasswordToken = ""
		user.ResetPasswordExpires = nil
		if saveErr := s.UserRepo.Save(user); saveErr != nil {
			zap.L().Error("清除重置令牌失败", zap.Uint("userId", user.ID), zap.Error(saveErr))
		}
		return err
	}
	return nil
}

// VerifyResetToken 校验重置令牌是否有效（未过期且存在）
func (s *AuthService) VerifyResetToken(token string) (bool, error) {
	_, err := s.UserRepo.FindByResetToken(hashResetToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *AuthService) ResetPassword(token, newPassword string) (*model.User, error) {
	user, err := s.UserRepo.FindByResetToken(hashResetToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("Invalid or expired reset token")
		}
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user.Password = string(hashed)
	user.ResetPasswordToken = ""
	user.ResetPasswordExpires = nil
	if err := s.UserRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) GetProfile(userID uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	access, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.AccessExpire)
	if err != nil {
		return nil, err
	}
	refresh, err := util.GenerateJWT(user, s.JWT.Secret, s.JWT.RefreshExpire)
	if err != nil {
		return nil, err
	}
	if err := s.Redis.Set(ctx, refreshTokenPrefix+refresh, user.ID, s.JWT.RefreshExpire).Err(); err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) issueVerificationCode(ctx context.Context, user *model.User) error {
	code, err := generateNumericCode(6)
	if err != nil {
		return err
	}
	record := &model.VerificationCode{
		UserID:      user.ID,
		Type:        model.VerifyEmail,
		Code:        code,
		ExpiresAt:   time.Now().Add(verificationCodeTTL),
		MaxAttempts: 5,
	}
	if err := s.CodeRepo.Replace(record); err != nil {
		return err
	}
	return s.Email.SendVerificationCode(user.Email, user.Firstname, code)
}

func generateNumericCode(digits int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < digits; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", digits, n), nil
}

func hashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
