package service

import (
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newContentService(db *gorm.DB) *ContentService {
	return NewContentService(
		repository.NewCourseRepository(db),
		repository.NewModuleRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuizRepository(db),
		nil,
	)
}

func TestModuleCRUD(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)
	course := seedCourse(t, db, model.CoursePublished)

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.CreateModule(9999, ModuleRequest{Title: "孤儿模块"})
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})

	module, err := svc.CreateModule(course.ID, ModuleRequest{Title: "第一章", Order: 1})
	require.NoError(t, err)
	assert.False(t, module.IsPublished)

	t.Run("更新", func(t *testing.T) {
		published := true
		updated, err := svc.UpdateModule(module.ID, ModuleRequest{
			Title: "第一章（修订）", Order: 1, IsPublished: &published,
		})
		require.NoError(t, err)
		assert.Equal(t, "第一章（修订）", updated.Title)
		assert.True(t, updated.IsPublished)
	})

	t.Run("按顺序列出", func(t *testing.T) {
		_, err := svc.CreateModule(course.ID, ModuleRequest{Title: "第二章", Order: 2})
		require.NoError(t, err)

		modules, err := svc.ListModules(course.ID)
		require.NoError(t, err)
		require.Len(t, modules, 2)
		assert.Equal(t, "第一章（修订）", modules[0].Title)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, svc.DeleteModule(module.ID))
		_, err := svc.GetModule(module.ID)
		assert.ErrorIs(t, err, util.ErrModuleNotFound)
	})
}

func TestLessonTypeValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newContentService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)

	t.Run("PDF 课时要求文件地址", func(t *testing.T) {
		_, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "讲义", Content: "x", Type: model.LessonPDF,
		})
		assert.True(t, util.IsValidationError(err))

		lesson, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "讲义", Content: "x", Type: model.LessonPDF, FileURL: "/uploads/ch1.pdf",
		})
		require.NoError(t, err)
		assert.Equal(t, model.LessonPDF, lesson.Type)
	})

	t.Run("测验课时要求已存在的测验", func(t *testing.T) {
		missing := uint(9999)
		_, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "随堂测", Content: "x", Type: model.LessonQuiz, QuizID: &missing,
		})
		assert.True(t, util.IsValidationError(err))

		quiz := seedQuiz(t, db, course.ID, false)
		lesson, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "随堂测", Content: "x", Type: model.LessonQuiz, QuizID: &quiz.ID,
		})
		require.NoError(t, err)
		require.NotNil(t, lesson.QuizID)
		assert.Equal(t, quiz.ID, *lesson.QuizID)
	})

	t.Run("作业课时要求截止时间", func(t *testing.T) {
		_, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "作业", Content: "x", Type: model.LessonAssignment,
		})
		assert.True(t, util.IsValidationError(err))

		due := time.Now().Add(7 * 24 * time.Hour)
		lesson, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "作业", Content: "x", Type: model.LessonAssignment, DueDate: &due,
		})
		require.NoError(t, err)
		assert.NotNil(t, lesson.DueDate)
	})

	t.Run("视频课时地址可以后补", func(t *testing.T) {
		lesson, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "录播", Content: "x", Type: model.LessonVideo,
		})
		require.NoError(t, err)
		assert.Empty(t, lesson.VideoURL)
	})

	t.Run("非法类型", func(t *testing.T) {
		_, err := svc.CreateLesson(module.ID, LessonRequest{
			Title: "未知", Content: "x", Type: "podcast",
		})
		assert.True(t, util.IsValidationError(err))
	})
}
