package util

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrPermissionDenied   = errors.New("permission denied")

	ErrCourseNotFound     = errors.New("course not found")
	ErrModuleNotFound     = errors.New("module not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrOptionNotFound     = errors.New("question option not found")
	ErrAttemptNotFound    = errors.New("quiz attempt not found")
	ErrResponseNotFound   = errors.New("quiz response not found")
	ErrGradeNotFound      = errors.New("grade not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")

	ErrDuplicateSlug       = errors.New("a course with this title already exists")
	ErrDuplicateSubmission = errors.New("a submission for this assignment already exists")
	ErrAlreadyEnrolled     = errors.New("student already enrolled in this course")
	ErrAttemptLimitReached = errors.New("maximum number of attempts reached")
	ErrAttemptFinished     = errors.New("quiz attempt is no longer in progress")
	ErrQuizNotPublished    = errors.New("quiz not published")
)

// ValidationError 请求体内容不合法，控制器映射为 400
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidationError(msg string) error {
	return &ValidationError{Msg: msg}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsDuplicateKeyError 唯一索引冲突（MySQL 与测试用的 sqlite 报错文案不同）
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
