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

func newSubmissionService(db *gorm.DB) *SubmissionService {
	return NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewLessonRepository(db),
		repository.NewModuleRepository(db),
		repository.NewGradeRepository(db),
	)
}

func TestSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)

	t.Run("作业引用无效", func(t *testing.T) {
		_, err := svc.Submit(1, 9999, SubmitRequest{SubmissionText: "hi"})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("普通课时不能作为作业提交对象", func(t *testing.T) {
		lesson := &model.Lesson{
			ModuleID: module.ID, Title: "视频课", Content: "x", Order: 2, Type: model.LessonVideo,
		}
		require.NoError(t, db.Create(lesson).Error)

		_, err := svc.Submit(1, lesson.ID, SubmitRequest{SubmissionText: "hi"})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("必须带提交内容", func(t *testing.T) {
		assignment := seedAssignment(t, db, module.ID, nil)
		_, err := svc.Submit(1, assignment.ID, SubmitRequest{})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("截止时间之后提交记为迟交", func(t *testing.T) {
		due := time.Now().Add(-time.Hour)
		assignment := seedAssignment(t, db, module.ID, &due)

		submission, err := svc.Submit(1, assignment.ID, SubmitRequest{SubmissionText: "迟到了"})
		require.NoError(t, err)
		assert.True(t, submission.IsLate)
		assert.Equal(t, model.SubmissionSubmitted, submission.Status)
	})

	t.Run("截止时间之前提交", func(t *testing.T) {
		due := time.Now().Add(time.Hour)
		assignment := seedAssignment(t, db, module.ID, &due)

		submission, err := svc.Submit(1, assignment.ID, SubmitRequest{FileURL: "/uploads/a.zip"})
		require.NoError(t, err)
		assert.False(t, submission.IsLate)
	})

	t.Run("同一作业只允许一次提交", func(t *testing.T) {
		assignment := seedAssignment(t, db, module.ID, nil)

		_, err := svc.Submit(1, assignment.ID, SubmitRequest{SubmissionText: "第一次"})
		require.NoError(t, err)

		_, err = svc.Submit(1, assignment.ID, SubmitRequest{SubmissionText: "第二次"})
		assert.ErrorIs(t, err, util.ErrDuplicateSubmission)
	})
}

func TestAddComment(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)
	assignment := seedAssignment(t, db, module.ID, nil)

	submission, err := svc.Submit(1, assignment.ID, SubmitRequest{SubmissionText: "请批改"})
	require.NoError(t, err)

	t.Run("空评论", func(t *testing.T) {
		_, err := svc.AddComment(submission.ID, 2, "")
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("评论追加且保留顺序", func(t *testing.T) {
		_, err := svc.AddComment(submission.ID, 2, "结构不错")
		require.NoError(t, err)
		updated, err := svc.AddComment(submission.ID, 1, "谢谢老师")
		require.NoError(t, err)

		require.Len(t, updated.Comments, 2)
		assert.Equal(t, uint(2), updated.Comments[0].UserID)
		assert.Equal(t, "谢谢老师", updated.Comments[1].Text)
	})
}

func TestGradeSubmission(t *testing.T) {
	db := newTestDB(t)
	svc := newSubmissionService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)
	assignment := seedAssignment(t, db, module.ID, nil)

	submission, err := svc.Submit(1, assignment.ID, SubmitRequest{SubmissionText: "完成"})
	require.NoError(t, err)

	t.Run("得分不能超过满分", func(t *testing.T) {
		_, err := svc.Grade(submission.ID, 9, GradeSubmissionRequest{Score: 110, MaxScore: 100})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("批改生成成绩并回填提交", func(t *testing.T) {
		grade, err := svc.Grade(submission.ID, 9, GradeSubmissionRequest{
			Score: 75, MaxScore: 100, Feedback: "边界情况没覆盖",
		})
		require.NoError(t, err)

		assert.Equal(t, 75.0, grade.Percentage)
		assert.Equal(t, course.ID, grade.CourseID)
		assert.Equal(t, model.GradeItemAssignment, grade.ItemType)
		assert.Equal(t, 1.0, grade.Weight, "权重缺省为 1")
		assert.Equal(t, "uncategorized", grade.Category)
		assert.False(t, grade.IsPublished, "新成绩默认未发布")

		updated, err := svc.GetByID(submission.ID)
		require.NoError(t, err)
		assert.Equal(t, model.SubmissionGraded, updated.Status)
		require.NotNil(t, updated.GradeID)
		assert.Equal(t, grade.ID, *updated.GradeID)
	})
}
