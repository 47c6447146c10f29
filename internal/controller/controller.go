package controller

import (
	"errors"
	"net/http"
	"strconv"

	"learnify_backend/internal/model"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// handleServiceError 统一把服务层错误映射为 HTTP 状态码
func handleServiceError(ctx *gin.Context, err error) {
	var ve *util.ValidationError
	switch {
	case errors.As(err, &ve):
		util.BadRequest(ctx, ve.Msg)
	case errors.Is(err, util.ErrUserNotFound),
		errors.Is(err, util.ErrCourseNotFound),
		errors.Is(err, util.ErrModuleNotFound),
		errors.Is(err, util.ErrLessonNotFound),
		errors.Is(err, util.ErrQuizNotFound),
		errors.Is(err, util.ErrQuestionNotFound),
		errors.Is(err, util.ErrOptionNotFound),
		errors.Is(err, util.ErrAttemptNotFound),
		errors.Is(err, util.ErrResponseNotFound),
		errors.Is(err, util.ErrGradeNotFound),
		errors.Is(err, util.ErrSubmissionNotFound),
		errors.Is(err, util.ErrEnrollmentNotFound):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrInvalidCredentials):
		util.Unauthorized(ctx)
	case errors.Is(err, util.ErrPermissionDenied),
		errors.Is(err, util.ErrQuizNotPublished),
		errors.Is(err, util.ErrAttemptLimitReached):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrEmailRegistered),
		errors.Is(err, util.ErrDuplicateSlug),
		errors.Is(err, util.ErrDuplicateSubmission),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrAttemptFinished):
		util.Conflict(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID 解析路径里的数字 ID 参数
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param(name), 10, 64)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// canManage 课程级管理权限：课程讲师本人或管理员
func canManage(ctx *gin.Context, instructorID uint) bool {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return false
	}
	if claims.UserID == instructorID || claims.Role == model.Admin {
		return true
	}
	util.Forbidden(ctx)
	return false
}
