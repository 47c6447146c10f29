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

func newGradeService(db *gorm.DB) *GradeService {
	return NewGradeService(
		repository.NewGradeRepository(db),
		repository.NewCourseRepository(db),
		repository.NewQuizRepository(db),
		repository.NewLessonRepository(db),
	)
}

func TestCreateGrade(t *testing.T) {
	db := newTestDB(t)
	svc := newGradeService(db)
	course := seedCourse(t, db, model.CoursePublished)

	t.Run("百分比为派生值", func(t *testing.T) {
		grade, err := svc.Create(course.ID, 9, CreateGradeRequest{
			StudentID: 1, ItemID: 1, ItemType: model.GradeItemExam,
			Score: 75, MaxScore: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, 75.0, grade.Percentage)
	})

	t.Run("得分不能超过满分", func(t *testing.T) {
		_, err := svc.Create(course.ID, 9, CreateGradeRequest{
			StudentID: 1, ItemID: 1, ItemType: model.GradeItemExam,
			Score: 101, MaxScore: 100,
		})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.Create(9999, 9, CreateGradeRequest{
			StudentID: 1, ItemID: 1, ItemType: model.GradeItemExam,
			Score: 50, MaxScore: 100,
		})
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})
}

func TestStudentGradesPublishedOnly(t *testing.T) {
	db := newTestDB(t)
	svc := newGradeService(db)
	course := seedCourse(t, db, model.CoursePublished)

	grade, err := svc.Create(course.ID, 9, CreateGradeRequest{
		StudentID: 1, ItemID: 1, ItemType: model.GradeItemExam,
		Score: 80, MaxScore: 100,
	})
	require.NoError(t, err)

	grades, err := svc.StudentGrades(course.ID, 1)
	require.NoError(t, err)
	assert.Empty(t, grades, "未发布成绩学生不可见")

	_, err = svc.Publish(grade.ID, true)
	require.NoError(t, err)

	grades, err = svc.StudentGrades(course.ID, 1)
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}

func TestCourseGrade(t *testing.T) {
	db := newTestDB(t)
	svc := newGradeService(db)
	course := seedCourse(t, db, model.CoursePublished)

	t.Run("没有成绩时总评为零", func(t *testing.T) {
		summary, err := svc.CourseGrade(course.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 0.0, summary.TotalGrade)
		assert.Equal(t, 0.0, summary.WeightedGrade)
		assert.Empty(t, summary.Grades)
	})

	t.Run("简单平均与加权平均", func(t *testing.T) {
		// 80 分权重 3，60 分权重 1
		g1, err := svc.Create(course.ID, 9, CreateGradeRequest{
			StudentID: 1, ItemID: 1, ItemType: model.GradeItemExam,
			Score: 80, MaxScore: 100, Weight: 3,
		})
		require.NoError(t, err)
		g2, err := svc.Create(course.ID, 9, CreateGradeRequest{
			StudentID: 1, ItemID: 2, ItemType: model.GradeItemParticipation,
			Score: 60, MaxScore: 100, Weight: 1,
		})
		require.NoError(t, err)

		for _, g := range []*model.Grade{g1, g2} {
			_, err := svc.Publish(g.ID, true)
			require.NoError(t, err)
		}

		summary, err := svc.CourseGrade(course.ID, 1)
		require.NoError(t, err)
		assert.Equal(t, 70.0, summary.TotalGrade)
		assert.Equal(t, 75.0, summary.WeightedGrade, "(80*3+60*1)/4")
		assert.Len(t, summary.Grades, 2)
	})
}

func TestResolveItem(t *testing.T) {
	db := newTestDB(t)
	svc := newGradeService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)
	quiz := seedQuiz(t, db, course.ID, true)
	assignment := seedAssignment(t, db, module.ID, nil)

	t.Run("测验成绩", func(t *testing.T) {
		item, err := svc.ResolveItem(&model.Grade{ItemID: quiz.ID, ItemType: model.GradeItemQuiz})
		require.NoError(t, err)
		require.NotNil(t, item.Quiz)
		assert.Equal(t, quiz.ID, item.Quiz.ID)
		assert.Nil(t, item.Assignment)
	})

	t.Run("作业成绩", func(t *testing.T) {
		item, err := svc.ResolveItem(&model.Grade{ItemID: assignment.ID, ItemType: model.GradeItemAssignment})
		require.NoError(t, err)
		require.NotNil(t, item.Assignment)
		assert.Equal(t, assignment.ID, item.Assignment.ID)
	})

	t.Run("无对应实体的成绩项", func(t *testing.T) {
		item, err := svc.ResolveItem(&model.Grade{ItemID: 1, ItemType: model.GradeItemParticipation})
		require.NoError(t, err)
		assert.Nil(t, item.Quiz)
		assert.Nil(t, item.Assignment)
	})

	t.Run("评分项已删除", func(t *testing.T) {
		_, err := svc.ResolveItem(&model.Grade{ItemID: 9999, ItemType: model.GradeItemQuiz})
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})
}
