package service

import (
	"testing"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)

	t.Run("未发布的测验不能开始答题", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, false)
		_, err := svc.StartAttempt(quiz.ID, 10)
		assert.ErrorIs(t, err, util.ErrQuizNotPublished)
	})

	t.Run("次数编号递增", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)
		quiz.AttemptsAllowed = 3
		require.NoError(t, db.Save(quiz).Error)

		first, err := svc.StartAttempt(quiz.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 1, first.AttemptNumber)
		assert.Equal(t, model.AttemptInProgress, first.Status)

		second, err := svc.StartAttempt(quiz.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, 2, second.AttemptNumber)
	})

	t.Run("超出允许次数", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)

		_, err := svc.StartAttempt(quiz.ID, 20)
		require.NoError(t, err)

		_, err = svc.StartAttempt(quiz.ID, 20)
		assert.ErrorIs(t, err, util.ErrAttemptLimitReached)
	})
}

func TestGradeResponseMultipleChoice(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, true)
	question, right, wrong := seedMCQuestion(t, db, quiz.ID, 5)

	attempt, err := svc.StartAttempt(quiz.ID, 10)
	require.NoError(t, err)

	t.Run("选对得满分", func(t *testing.T) {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &right.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.IsCorrect)
		assert.True(t, *resp.IsCorrect)
		assert.Equal(t, 5.0, resp.PointsAwarded)
		assert.Equal(t, 5.0, resp.MaxPoints)
	})

	t.Run("改答成错误选项按更新处理", func(t *testing.T) {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &wrong.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.IsCorrect)
		assert.False(t, *resp.IsCorrect)
		assert.Equal(t, 0.0, resp.PointsAwarded)

		var count int64
		require.NoError(t, db.Model(&model.QuizResponse{}).
			Where("quiz_attempt_id = ?", attempt.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count, "重复作答不应产生新记录")
	})

	t.Run("缺少选项", func(t *testing.T) {
		_, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{})
		assert.True(t, util.IsValidationError(err))
	})
}

// 判断题沿用旧版行为：所选选项 ID 与布尔答案直接比较，结构上永远不相等
func TestGradeResponseTrueFalseNeverCorrect(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, true)

	answer := true
	question := &model.Question{
		QuizID:        quiz.ID,
		Text:          "nil channel 上的接收会永远阻塞",
		Type:          model.TrueFalse,
		Points:        2,
		Order:         1,
		CorrectAnswer: &answer,
	}
	require.NoError(t, db.Create(question).Error)

	trueOpt := &model.QuestionOption{QuestionID: question.ID, Text: "对", IsCorrect: true, Order: 1}
	falseOpt := &model.QuestionOption{QuestionID: question.ID, Text: "错", IsCorrect: false, Order: 2}
	require.NoError(t, db.Create(trueOpt).Error)
	require.NoError(t, db.Create(falseOpt).Error)

	attempt, err := svc.StartAttempt(quiz.ID, 10)
	require.NoError(t, err)

	for _, opt := range []*model.QuestionOption{trueOpt, falseOpt} {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &opt.ID})
		require.NoError(t, err)
		require.NotNil(t, resp.IsCorrect)
		assert.False(t, *resp.IsCorrect)
		assert.Equal(t, 0.0, resp.PointsAwarded)
	}
}

func TestGradeResponseTextual(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, true)

	question := &model.Question{
		QuizID: quiz.ID,
		Text:   "简述 select 的公平性",
		Type:   model.ShortAnswer,
		Points: 10,
		Order:  1,
	}
	require.NoError(t, db.Create(question).Error)

	attempt, err := svc.StartAttempt(quiz.ID, 10)
	require.NoError(t, err)

	t.Run("空白作答被拒绝", func(t *testing.T) {
		_, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{TextResponse: "   "})
		assert.True(t, util.IsValidationError(err))
	})

	t.Run("文本题保存后留待人工评分", func(t *testing.T) {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{TextResponse: "多个就绪分支随机选取"})
		require.NoError(t, err)
		assert.Nil(t, resp.IsCorrect)
		assert.Equal(t, 0.0, resp.PointsAwarded)
		assert.Equal(t, 10.0, resp.MaxPoints)
	})

	t.Run("人工评分", func(t *testing.T) {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{TextResponse: "多个就绪分支随机选取"})
		require.NoError(t, err)

		graded, err := svc.GradeTextResponse(resp.ID, 8, "还差超时分支", 99)
		require.NoError(t, err)
		assert.Equal(t, 8.0, graded.PointsAwarded)
		require.NotNil(t, graded.IsCorrect)
		assert.False(t, *graded.IsCorrect)
		require.NotNil(t, graded.GradedBy)
		assert.Equal(t, uint(99), *graded.GradedBy)
		assert.NotNil(t, graded.GradedAt)
	})

	t.Run("评分越界", func(t *testing.T) {
		resp, err := svc.GradeResponse(attempt.ID, question.ID, ResponseInput{TextResponse: "再答一次"})
		require.NoError(t, err)

		_, err = svc.GradeTextResponse(resp.ID, 11, "", 99)
		assert.True(t, util.IsValidationError(err))
		_, err = svc.GradeTextResponse(resp.ID, -1, "", 99)
		assert.True(t, util.IsValidationError(err))
	})
}

func TestScoreAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)

	t.Run("得分为百分比并判定及格", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)
		question, right, _ := seedMCQuestion(t, db, quiz.ID, 4)

		attempt, err := svc.StartAttempt(quiz.ID, 10)
		require.NoError(t, err)
		_, err = svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &right.ID})
		require.NoError(t, err)

		score, err := svc.ScoreAttempt(attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 100.0, score)

		saved, err := svc.AttemptRepo.FindByID(attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptCompleted, saved.Status)
		assert.True(t, saved.IsPassed)
		assert.NotNil(t, saved.EndTime)
	})

	t.Run("答错不及格", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)
		question, _, wrong := seedMCQuestion(t, db, quiz.ID, 4)

		attempt, err := svc.StartAttempt(quiz.ID, 11)
		require.NoError(t, err)
		_, err = svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &wrong.ID})
		require.NoError(t, err)

		score, err := svc.ScoreAttempt(attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)

		saved, err := svc.AttemptRepo.FindByID(attempt.ID)
		require.NoError(t, err)
		assert.False(t, saved.IsPassed)
	})

	t.Run("没有作答时返回零且不流转状态", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)
		attempt, err := svc.StartAttempt(quiz.ID, 12)
		require.NoError(t, err)

		score, err := svc.ScoreAttempt(attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, 0.0, score)

		saved, err := svc.AttemptRepo.FindByID(attempt.ID)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptInProgress, saved.Status)
	})

	t.Run("重复计分不改动计时字段", func(t *testing.T) {
		quiz := seedQuiz(t, db, course.ID, true)
		question, right, _ := seedMCQuestion(t, db, quiz.ID, 4)

		attempt, err := svc.StartAttempt(quiz.ID, 13)
		require.NoError(t, err)
		_, err = svc.GradeResponse(attempt.ID, question.ID, ResponseInput{SelectedOptionID: &right.ID})
		require.NoError(t, err)

		_, err = svc.ScoreAttempt(attempt.ID)
		require.NoError(t, err)
		first, err := svc.AttemptRepo.FindByID(attempt.ID)
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		_, err = svc.ScoreAttempt(attempt.ID)
		require.NoError(t, err)
		second, err := svc.AttemptRepo.FindByID(attempt.ID)
		require.NoError(t, err)

		assert.Equal(t, first.TimeSpent, second.TimeSpent)
		require.NotNil(t, second.EndTime)
		assert.True(t, first.EndTime.Equal(*second.EndTime))
		assert.Equal(t, first.Score, second.Score)
	})
}

func TestAbandonAttempt(t *testing.T) {
	db := newTestDB(t)
	svc := newGradingService(db)
	course := seedCourse(t, db, model.CoursePublished)
	quiz := seedQuiz(t, db, course.ID, true)

	attempt, err := svc.StartAttempt(quiz.ID, 10)
	require.NoError(t, err)

	t.Run("只能放弃自己的答题", func(t *testing.T) {
		_, err := svc.AbandonAttempt(attempt.ID, 999)
		assert.ErrorIs(t, err, util.ErrPermissionDenied)
	})

	t.Run("放弃后不能再作答", func(t *testing.T) {
		abandoned, err := svc.AbandonAttempt(attempt.ID, 10)
		require.NoError(t, err)
		assert.Equal(t, model.AttemptAbandoned, abandoned.Status)

		optID := uint(1)
		_, err = svc.GradeResponse(attempt.ID, 1, ResponseInput{SelectedOptionID: &optID})
		assert.ErrorIs(t, err, util.ErrAttemptFinished)

		_, err = svc.AbandonAttempt(attempt.ID, 10)
		assert.ErrorIs(t, err, util.ErrAttemptFinished)
	})
}
