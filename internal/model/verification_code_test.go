package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerificationCodeValidate(t *testing.T) {
	newCode := func() *VerificationCode {
		return &VerificationCode{
			UserID:      1,
			Type:        VerifyEmail,
			Code:        "123456",
			ExpiresAt:   time.Now().Add(15 * time.Minute),
			MaxAttempts: 5,
		}
	}

	t.Run("正确验证码", func(t *testing.T) {
		code := newCode()
		assert.Equal(t, CodeValid, code.Validate("123456"))
		assert.Equal(t, 0, code.Attempts)
	})

	t.Run("过期", func(t *testing.T) {
		code := newCode()
		code.ExpiresAt = time.Now().Add(-time.Minute)
		assert.Equal(t, CodeExpired, code.Validate("123456"))
	})

	t.Run("已使用", func(t *testing.T) {
		code := newCode()
		code.IsUsed = true
		assert.Equal(t, CodeUsed, code.Validate("123456"))
	})

	t.Run("错误验证码累加尝试次数", func(t *testing.T) {
		code := newCode()
		assert.Equal(t, CodeInvalid, code.Validate("000000"))
		assert.Equal(t, 1, code.Attempts)
		assert.Equal(t, CodeInvalid, code.Validate("999999"))
		assert.Equal(t, 2, code.Attempts)
	})

	t.Run("超过最大尝试次数后正确验证码也被拒绝", func(t *testing.T) {
		code := newCode()
		for i := 0; i < code.MaxAttempts; i++ {
			code.Validate("000000")
		}
		assert.Equal(t, CodeMaxAttempts, code.Validate("123456"))
	})
}

func TestEnrollmentFindModuleProgress(t *testing.T) {
	e := &Enrollment{
		ModuleProgress: ModuleProgressList{
			{ModuleID: 1, CompletionPercentage: 30},
			{ModuleID: 2, CompletionPercentage: 70},
		},
	}

	mp := e.FindModuleProgress(2)
	assert.NotNil(t, mp)
	assert.Equal(t, 70.0, mp.CompletionPercentage)

	assert.Nil(t, e.FindModuleProgress(3))

	// 返回的是切片内元素的指针，修改会反映到报名记录上
	mp.CompletionPercentage = 90
	assert.Equal(t, 90.0, e.ModuleProgress[1].CompletionPercentage)
}

func TestGradeComputePercentage(t *testing.T) {
	g := &Grade{Score: 75, MaxScore: 100}
	g.ComputePercentage()
	assert.Equal(t, 75.0, g.Percentage)

	zero := &Grade{Score: 10, MaxScore: 0}
	zero.ComputePercentage()
	assert.Equal(t, 0.0, zero.Percentage, "满分为零时不做除法")
}

func TestCourseGenerateSlug(t *testing.T) {
	c := &Course{Title: "Advanced Go Programming"}
	c.GenerateSlug()
	assert.Equal(t, "advanced-go-programming", c.Slug)
}

func TestSubmissionHasContent(t *testing.T) {
	assert.False(t, (&Submission{}).HasContent())
	assert.True(t, (&Submission{SubmissionText: "x"}).HasContent())
	assert.True(t, (&Submission{FileURL: "/uploads/a.pdf"}).HasContent())
	assert.True(t, (&Submission{Attachments: AttachmentList{{FileName: "a"}}}).HasContent())
}
