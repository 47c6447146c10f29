package controller

import (
	"net/http"

	"learnify_backend/internal/model"
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Register godoc
// @Summary 注册新用户
// @Description 注册账号并发送邮箱验证码，返回用户信息与令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=object} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "邮箱已被注册"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req service.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, tokens, err := c.AuthService.Register(ctx.Request.Context(), req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Created(ctx, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login godoc
// @Summary 登录
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录凭证"
// @Success 200 {object} util.Response{data=object} "登录成功"
// @Failure 401 {object} util.Response "密码错误"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, tokens, err := c.AuthService.Login(ctx.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"user":   user,
		"tokens": tokens,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// Refresh godoc
// @Summary 刷新令牌
// @Description 旧刷新令牌作废并签发新的一对令牌
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RefreshRequest true "刷新令牌"
// @Success 200 {object} util.Response{data=service.TokenPair}
// @Failure 401 {object} util.Response "令牌无效或已撤销"
// @Router /api/auth/refresh [post]
func (c *AuthController) Refresh(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	tokens, err := c.AuthService.Refresh(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, tokens)
}

// Logout godoc
// @Summary 登出
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RefreshRequest true "刷新令牌"
// @Success 200 {object} util.Response
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	var req RefreshRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.Logout(ctx.Request.Context(), req.RefreshToken); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// Profile godoc
// @Summary 当前用户信息
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=model.User}
// @Router /api/auth/me [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	user, err := c.AuthService.GetProfile(claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, user)
}

type VerifyEmailRequest struct {
	Code string `json:"code" binding:"required"`
}

// VerifyEmail godoc
// @Summary 校验邮箱验证码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body VerifyEmailRequest true "验证码"
// @Success 200 {object} util.Response{data=object} "验证成功"
// @Failure 400 {object} util.Response "验证码错误或已失效"
// @Router /api/auth/verify-email [post]
func (c *AuthController) VerifyEmail(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req VerifyEmailRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.VerifyEmail(ctx.Request.Context(), claims.UserID, req.Code)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	switch result.Reason {
	case model.CodeValid:
		util.Success(ctx, gin.H{"user": result.User})
	case model.CodeExpired:
		util.BadRequest(ctx, "Verification code has expired, please request a new one")
	case model.CodeUsed:
		util.BadRequest(ctx, "Verification code has already been used")
	case model.CodeMaxAttempts:
		util.BadRequest(ctx, "Too many failed attempts, please request a new code")
	default:
		ctx.JSON(http.StatusBadRequest, util.Response{
			Code:    http.StatusBadRequest,
			Message: "Invalid verification code",
			Data:    gin.H{"attemptsLeft": result.AttemptsLeft},
		})
	}
}

// ResendVerification godoc
// @Summary 重发邮箱验证码
// @Description 60 秒内只允许请求一次
// @Tags 认证
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "请求过于频繁或邮箱已验证"
// @Router /api/auth/resend-verification [post]
func (c *AuthController) ResendVerification(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.AuthService.RequestEmailVerification(ctx.Request.Context(), claims.UserID); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "Verification code sent"})
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ForgotPassword godoc
// @Summary 发起密码重置
// @Description 邮箱存在时发送重置链接；不存在也返回成功，避免枚举账号
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body ForgotPasswordRequest true "邮箱"
// @Success 200 {object} util.Response
// @Router /api/auth/forgot-password [post]
func (c *AuthController) ForgotPassword(ctx *gin.Context) {
	var req ForgotPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ForgotPassword(ctx.Request.Context(), req.Email); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"message": "If the email exists, a reset link has been sent"})
}

// VerifyResetToken godoc
// @Summary 校验重置令牌
// @Tags 认证
// @Produce  json
// @Param   token path string true "重置令牌"
// @Success 200 {object} util.Response{data=object}
// @Router /api/auth/reset-password/{token} [get]
func (c *AuthController) VerifyResetToken(ctx *gin.Context) {
	valid, err := c.AuthService.VerifyResetToken(ctx.Param("token"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"valid": valid})
}

type ResetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// ResetPassword godoc
// @Summary 重置密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   token path string true "重置令牌"
// @Param   body body ResetPasswordRequest true "新密码"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "令牌无效或已过期"
// @Router /api/auth/reset-password/{token} [post]
func (c *AuthController) ResetPassword(ctx *gin.Context) {
	var req ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.ResetPassword(ctx.Param("token"), req.Password)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"email": user.Email})
}
