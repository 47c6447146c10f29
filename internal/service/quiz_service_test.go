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

func newQuizService(db *gorm.DB) *QuizService {
	return NewQuizService(repository.NewQuizRepository(db), repository.NewCourseRepository(db))
}

func TestCreateQuizDefaults(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	course := seedCourse(t, db, model.CoursePublished)

	quiz, err := svc.CreateQuiz(course.ID, QuizRequest{Title: "入门测验"})
	require.NoError(t, err)
	assert.Equal(t, 70.0, quiz.PassingScore)
	assert.True(t, quiz.ShowResults)
	assert.Equal(t, 1, quiz.AttemptsAllowed)
	assert.False(t, quiz.IsPublished)

	t.Run("显式覆盖默认值", func(t *testing.T) {
		passing := 85.0
		show := false
		attempts := 3
		quiz, err := svc.CreateQuiz(course.ID, QuizRequest{
			Title:           "期末测验",
			PassingScore:    &passing,
			ShowResults:     &show,
			AttemptsAllowed: &attempts,
		})
		require.NoError(t, err)
		assert.Equal(t, 85.0, quiz.PassingScore)
		assert.False(t, quiz.ShowResults)
		assert.Equal(t, 3, quiz.AttemptsAllowed)
	})

	t.Run("课程不存在", func(t *testing.T) {
		_, err := svc.CreateQuiz(9999, QuizRequest{Title: "无主测验"})
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})
}

func TestAddQuestionValidation(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, false)

	mcOptions := []OptionRequest{
		{Text: "nil", IsCorrect: true, Order: 1},
		{Text: "panic", Order: 2},
	}

	t.Run("选择题至少两个选项", func(t *testing.T) {
		_, err := svc.AddQuestion(quiz.ID, QuestionRequest{
			Text:    "只有一个选项",
			Type:    model.MultipleChoice,
			Options: mcOptions[:1],
		})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("选择题必须恰好一个正确选项", func(t *testing.T) {
		_, err := svc.AddQuestion(quiz.ID, QuestionRequest{
			Text: "没有正确选项",
			Type: model.MultipleChoice,
			Options: []OptionRequest{
				{Text: "A", Order: 1},
				{Text: "B", Order: 2},
			},
		})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("判断题需要正确答案", func(t *testing.T) {
		_, err := svc.AddQuestion(quiz.ID, QuestionRequest{
			Text: "少了答案",
			Type: model.TrueFalse,
		})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("文本题不接受选项", func(t *testing.T) {
		_, err := svc.AddQuestion(quiz.ID, QuestionRequest{
			Text:    "带选项的简答题",
			Type:    model.ShortAnswer,
			Options: mcOptions,
		})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("分值缺省为一分", func(t *testing.T) {
		question, err := svc.AddQuestion(quiz.ID, QuestionRequest{
			Text:    "合法选择题",
			Type:    model.MultipleChoice,
			Options: mcOptions,
		})
		require.NoError(t, err)
		assert.Equal(t, 1.0, question.Points)
		assert.Len(t, question.Options, 2)
	})
}

func TestCalculateTotalPoints(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, false)

	mcOptions := []OptionRequest{
		{Text: "A", IsCorrect: true, Order: 1},
		{Text: "B", Order: 2},
	}

	q1, err := svc.AddQuestion(quiz.ID, QuestionRequest{
		Text: "第一题", Type: model.MultipleChoice, Points: 4, Options: mcOptions,
	})
	require.NoError(t, err)
	_, err = svc.AddQuestion(quiz.ID, QuestionRequest{
		Text: "第二题", Type: model.ShortAnswer, Points: 6,
	})
	require.NoError(t, err)

	saved, err := svc.GetQuiz(quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 10.0, saved.TotalPoints, "新增题目后总分应为各题分值之和")

	t.Run("改分后重算", func(t *testing.T) {
		_, err := svc.UpdateQuestion(q1.ID, QuestionRequest{
			Text: "第一题", Type: model.MultipleChoice, Points: 10, Options: mcOptions,
		})
		require.NoError(t, err)

		saved, err := svc.GetQuiz(quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 16.0, saved.TotalPoints)
	})

	t.Run("删题后重算", func(t *testing.T) {
		require.NoError(t, svc.DeleteQuestion(q1.ID))

		saved, err := svc.GetQuiz(quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, saved.TotalPoints)
	})
}

func TestPublishQuiz(t *testing.T) {
	db := newTestDB(t)
	svc := newQuizService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, false)

	published, err := svc.PublishQuiz(quiz.ID, true)
	require.NoError(t, err)
	assert.True(t, published.IsPublished)

	unpublished, err := svc.PublishQuiz(quiz.ID, false)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
}
