package service

import (
	"fmt"
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/pkg/database"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB 每个测试独立的内存 sqlite 数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedCourse(t *testing.T, db *gorm.DB, status model.CourseStatus) *model.Course {
	t.Helper()

	course := &model.Course{
		Title:        "Go 并发编程",
		Description:  "goroutine 与 channel",
		InstructorID: 1,
		Status:       status,
		StartDate:    time.Now(),
	}
	course.GenerateSlug()
	require.NoError(t, db.Create(course).Error)
	return course
}

func seedModule(t *testing.T, db *gorm.DB, courseID uint, order int) *model.Module {
	t.Helper()

	m := &model.Module{
		CourseID: courseID,
		Title:    fmt.Sprintf("模块 %d", order),
		Order:    order,
	}
	require.NoError(t, db.Create(m).Error)
	return m
}

func seedAssignment(t *testing.T, db *gorm.DB, moduleID uint, due *time.Time) *model.Lesson {
	t.Helper()

	lesson := &model.Lesson{
		ModuleID: moduleID,
		Title:    "课后作业",
		Content:  "提交一个 worker pool 实现",
		Order:    1,
		Type:     model.LessonAssignment,
		DueDate:  due,
	}
	require.NoError(t, db.Create(lesson).Error)
	return lesson
}

func seedQuiz(t *testing.T, db *gorm.DB, courseID uint, published bool) *model.Quiz {
	t.Helper()

	quiz := &model.Quiz{
		CourseID:        courseID,
		Title:           "第一章测验",
		PassingScore:    70,
		IsPublished:     published,
		ShowResults:     true,
		AttemptsAllowed: 1,
	}
	require.NoError(t, db.Create(quiz).Error)
	return quiz
}

// seedMCQuestion 一道选择题和它的两个选项，第一个选项为正确答案
func seedMCQuestion(t *testing.T, db *gorm.DB, quizID uint, points float64) (*model.Question, *model.QuestionOption, *model.QuestionOption) {
	t.Helper()

	q := &model.Question{
		QuizID: quizID,
		Text:   "channel 的零值是什么？",
		Type:   model.MultipleChoice,
		Points: points,
		Order:  1,
	}
	require.NoError(t, db.Create(q).Error)

	right := &model.QuestionOption{QuestionID: q.ID, Text: "nil", IsCorrect: true, Order: 1}
	wrong := &model.QuestionOption{QuestionID: q.ID, Text: "空 struct", IsCorrect: false, Order: 2}
	require.NoError(t, db.Create(right).Error)
	require.NoError(t, db.Create(wrong).Error)
	return q, right, wrong
}

func newGradingService(db *gorm.DB) *GradingService {
	return NewGradingService(
		repository.NewQuizRepository(db),
		repository.NewQuizAttemptRepository(db),
	)
}

func newAnalyticsService(db *gorm.DB) *AnalyticsService {
	return NewAnalyticsService(
		repository.NewAnalyticsRepository(db),
		repository.NewCourseRepository(db),
		repository.NewModuleRepository(db),
		repository.NewLessonRepository(db),
		repository.NewQuizRepository(db),
		repository.NewQuizAttemptRepository(db),
		repository.NewGradeRepository(db),
		repository.NewSubmissionRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}
