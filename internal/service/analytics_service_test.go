package service

import (
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsGetOrCreate(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.GetOrCreate(9999)
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})

	t.Run("惰性创建零值快照", func(t *testing.T) {
		course := seedCourse(t, db, model.CoursePublished)

		analytics, err := svc.GetOrCreate(course.ID)
		require.NoError(t, err)
		assert.Equal(t, course.ID, analytics.CourseID)
		assert.Equal(t, 0, analytics.TotalStudents)

		again, err := svc.GetOrCreate(course.ID)
		require.NoError(t, err)
		assert.Equal(t, analytics.ID, again.ID, "重复读取不应新建快照")
	})
}

func TestRecalculateEmptyCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	course := seedCourse(t, db, model.CoursePublished)

	analytics, err := svc.Recalculate(course.ID)
	require.NoError(t, err)

	assert.Equal(t, 0, analytics.TotalStudents)
	assert.Equal(t, 0.0, analytics.AverageCompletion)
	assert.Equal(t, 0.0, analytics.AverageScore)
	assert.Empty(t, analytics.ModuleCompletionRates)
	assert.Equal(t, model.QuizAttemptStats{}, analytics.QuizAttemptStats)
	assert.Equal(t, model.AssignmentStats{}, analytics.AssignmentStats)
	assert.False(t, analytics.LastUpdated.IsZero())
}

func TestRecalculateEnrollmentStats(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	course := seedCourse(t, db, model.CoursePublished)
	m1 := seedModule(t, db, course.ID, 1)
	m2 := seedModule(t, db, course.ID, 2)

	enrollments := []model.Enrollment{
		{StudentID: 1, CourseID: course.ID, Status: model.EnrollmentActive, Progress: 40,
			ModuleProgress: model.ModuleProgressList{{ModuleID: m1.ID, CompletionPercentage: 80}}},
		{StudentID: 2, CourseID: course.ID, Status: model.EnrollmentCompleted, Progress: 60,
			ModuleProgress: model.ModuleProgressList{
				{ModuleID: m1.ID, CompletionPercentage: 100},
				{ModuleID: m2.ID, CompletionPercentage: 20},
			}},
		// 退课学员不计入
		{StudentID: 3, CourseID: course.ID, Status: model.EnrollmentDropped, Progress: 90,
			ModuleProgress: model.ModuleProgressList{}},
	}
	for i := range enrollments {
		require.NoError(t, db.Create(&enrollments[i]).Error)
	}

	analytics, err := svc.Recalculate(course.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, analytics.TotalStudents)
	assert.Equal(t, 50.0, analytics.AverageCompletion, "40 和 60 的平均值")

	require.Len(t, analytics.ModuleCompletionRates, 2)
	rateByModule := map[uint]float64{}
	for _, r := range analytics.ModuleCompletionRates {
		rateByModule[r.ModuleID] = r.CompletionRate
	}
	// 模块完成率只统计有进度条目的报名：模块一 (80+100)/2，模块二只有一条 20
	assert.Equal(t, 90.0, rateByModule[m1.ID])
	assert.Equal(t, 20.0, rateByModule[m2.ID])
}

func TestRecalculateQuizStats(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, true)

	now := time.Now()
	attempts := []model.QuizAttempt{
		{QuizID: quiz.ID, StudentID: 1, AttemptNumber: 1, StartTime: now,
			Status: model.AttemptCompleted, Score: 80, IsPassed: true},
		{QuizID: quiz.ID, StudentID: 2, AttemptNumber: 1, StartTime: now,
			Status: model.AttemptCompleted, Score: 40, IsPassed: false},
		// 进行中与放弃的答题不计入
		{QuizID: quiz.ID, StudentID: 3, AttemptNumber: 1, StartTime: now,
			Status: model.AttemptInProgress, Score: 0},
		{QuizID: quiz.ID, StudentID: 4, AttemptNumber: 1, StartTime: now,
			Status: model.AttemptAbandoned, Score: 0},
	}
	for i := range attempts {
		require.NoError(t, db.Create(&attempts[i]).Error)
	}

	analytics, err := svc.Recalculate(course.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, analytics.QuizAttemptStats.TotalAttempts)
	assert.Equal(t, 60.0, analytics.QuizAttemptStats.AverageScore)
	assert.Equal(t, 50.0, analytics.QuizAttemptStats.PassRate)
}

func TestRecalculateAssignmentAndScoreStats(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	course := seedCourse(t, db, model.CoursePublished)
	module := seedModule(t, db, course.ID, 1)
	due := time.Now().Add(-24 * time.Hour)
	assignment := seedAssignment(t, db, module.ID, &due)

	grade := &model.Grade{
		StudentID: 1, CourseID: course.ID, ItemID: assignment.ID,
		ItemType: model.GradeItemAssignment, Score: 75, MaxScore: 100,
		GradedBy: 9, GradedAt: time.Now(), Weight: 1, Category: "uncategorized",
		IsPublished: true,
	}
	grade.ComputePercentage()
	require.NoError(t, db.Create(grade).Error)

	// 未发布成绩不计入课程平均分
	hidden := &model.Grade{
		StudentID: 2, CourseID: course.ID, ItemID: assignment.ID,
		ItemType: model.GradeItemAssignment, Score: 5, MaxScore: 100,
		GradedBy: 9, GradedAt: time.Now(), Weight: 1, Category: "uncategorized",
	}
	hidden.ComputePercentage()
	require.NoError(t, db.Create(hidden).Error)

	submissions := []model.Submission{
		{StudentID: 1, AssignmentID: assignment.ID, SubmissionText: "done",
			SubmittedAt: time.Now(), Status: model.SubmissionGraded, IsLate: true, GradeID: &grade.ID},
		{StudentID: 2, AssignmentID: assignment.ID, SubmissionText: "done too",
			SubmittedAt: time.Now(), Status: model.SubmissionSubmitted},
	}
	for i := range submissions {
		require.NoError(t, db.Create(&submissions[i]).Error)
	}

	analytics, err := svc.Recalculate(course.ID)
	require.NoError(t, err)

	assert.Equal(t, 75.0, analytics.AverageScore)
	assert.Equal(t, 2, analytics.AssignmentStats.TotalSubmitted)
	assert.Equal(t, 1, analytics.AssignmentStats.LateSubmissions)
	assert.Equal(t, 75.0, analytics.AssignmentStats.AverageScore, "只统计已关联成绩的提交")
}

// 重算是覆盖式的：数据清空后快照回到零值
func TestRecalculateOverwritesPrevious(t *testing.T) {
	db := newTestDB(t)
	svc := newAnalyticsService(db)
	course := seedCourse(t, db, model.CoursePublished)

	enrollment := &model.Enrollment{
		StudentID: 1, CourseID: course.ID, Status: model.EnrollmentActive,
		Progress: 80, ModuleProgress: model.ModuleProgressList{},
	}
	require.NoError(t, db.Create(enrollment).Error)

	analytics, err := svc.Recalculate(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.TotalStudents)
	assert.Equal(t, 80.0, analytics.AverageCompletion)

	require.NoError(t, db.Unscoped().Delete(enrollment).Error)

	analytics, err = svc.Recalculate(course.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, analytics.TotalStudents)
	assert.Equal(t, 0.0, analytics.AverageCompletion)
}
