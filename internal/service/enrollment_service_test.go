package service

import (
	"testing"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newEnrollmentService(db *gorm.DB) *EnrollmentService {
	return NewEnrollmentService(
		repository.NewEnrollmentRepository(db),
		repository.NewCourseRepository(db),
		repository.NewModuleRepository(db),
	)
}

func TestEnroll(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)

	t.Run("只允许报名已发布课程", func(t *testing.T) {
		draft := seedCourse(t, db, model.CourseDraft)
		_, err := svc.Enroll(1, draft.ID)
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.Enroll(1, 9999)
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})

	t.Run("重复报名", func(t *testing.T) {
		course := seedCourse(t, db, model.CoursePublished)

		enrollment, err := svc.Enroll(1, course.ID)
		require.NoError(t, err)
		assert.Equal(t, model.EnrollmentActive, enrollment.Status)
		assert.Equal(t, 0.0, enrollment.Progress)

		_, err = svc.Enroll(1, course.ID)
		assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
	})
}

func TestUpdateModuleProgress(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	course := seedCourse(t, db, model.CoursePublished)
	m1 := seedModule(t, db, course.ID, 1)
	m2 := seedModule(t, db, course.ID, 2)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	t.Run("完成度越界", func(t *testing.T) {
		_, err := svc.UpdateModuleProgress(1, course.ID, m1.ID, 101)
		assert.True(t, util.IsValidationError(err))
		_, err = svc.UpdateModuleProgress(1, course.ID, m1.ID, -1)
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("模块不属于该课程", func(t *testing.T) {
		other := seedCourse(t, db, model.CoursePublished)
		foreign := seedModule(t, db, other.ID, 1)

		_, err := svc.UpdateModuleProgress(1, course.ID, foreign.ID, 50)
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("总进度为各模块完成度的平均值", func(t *testing.T) {
		enrollment, err := svc.UpdateModuleProgress(1, course.ID, m1.ID, 80)
		require.NoError(t, err)
		// 模块二尚无进度，按 0 计：(80+0)/2
		assert.Equal(t, 40.0, enrollment.Progress)

		enrollment, err = svc.UpdateModuleProgress(1, course.ID, m2.ID, 40)
		require.NoError(t, err)
		assert.Equal(t, 60.0, enrollment.Progress)
		assert.Equal(t, model.EnrollmentActive, enrollment.Status)
	})

	t.Run("全部完成后状态流转", func(t *testing.T) {
		_, err := svc.UpdateModuleProgress(1, course.ID, m1.ID, 100)
		require.NoError(t, err)
		enrollment, err := svc.UpdateModuleProgress(1, course.ID, m2.ID, 100)
		require.NoError(t, err)

		assert.Equal(t, 100.0, enrollment.Progress)
		assert.Equal(t, model.EnrollmentCompleted, enrollment.Status)
	})
}

func TestDropEnrollment(t *testing.T) {
	db := newTestDB(t)
	svc := newEnrollmentService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)

	_, err := svc.Enroll(1, course.ID)
	require.NoError(t, err)

	dropped, err := svc.Drop(1, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentDropped, dropped.Status)

	t.Run("退课后不能再更新进度", func(t *testing.T) {
		_, err := svc.UpdateModuleProgress(1, course.ID, module.ID, 50)
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("未报名的学生退课", func(t *testing.T) {
		_, err := svc.Drop(99, course.ID)
		assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
	})
}
