package service

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// GradingService 负责答题的生命周期：开始答题、逐题判分、交卷计分。
// 选择类题目在保存作答时自动判分，文本类题目留待人工评分。
type GradingService struct {
	QuizRepo    *repository.QuizRepository
	AttemptRepo *repository.QuizAttemptRepository
}

func NewGradingService(quizRepo *repository.QuizRepository, attemptRepo *repository.QuizAttemptRepository) *GradingService {
	return &GradingService{
		QuizRepo:    quizRepo,
		AttemptRepo: attemptRepo,
	}
}

// ResponseInput 单题作答内容，选择题传 selectedOptionId，文本题传 textResponse
type ResponseInput struct {
	SelectedOptionID *uint  `json:"selectedOptionId"`
	TextResponse     string `json:"textResponse"`
}

func (s *GradingService) StartAttempt(quizID, studentID uint) (*model.QuizAttempt, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, util.ErrQuizNotPublished
	}

	max, err := s.AttemptRepo.MaxAttemptNumber(quizID, studentID)
	if err != nil {
		return nil, err
	}
	if quiz.AttemptsAllowed > 0 && max >= quiz.AttemptsAllowed {
		return nil, util.ErrAttemptLimitReached
	}

	attempt := &model.QuizAttempt{
		QuizID:        quizID,
		StudentID:     studentID,
		AttemptNumber: max + 1,
		StartTime:     time.Now(),
		Status:        model.AttemptInProgress,
	}
	if err := s.AttemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GradeResponse 保存并判分单题作答。同一 (attempt, question) 重复提交按更新处理，
// 不会产生重复记录
func (s *GradingService) GradeResponse(attemptID, questionID uint, input ResponseInput) (*model.QuizResponse, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptFinished
	}

	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}

	switch question.Type {
	case model.MultipleChoice:
		if input.SelectedOptionID == nil {
			return nil, util.NewValidationError("Multiple choice questions require a selected option")
		}
	case model.TrueFalse:
		if input.SelectedOptionID == nil {
			return nil, util.NewValidationError("True/False questions require a selected option")
		}
	case model.ShortAnswer, model.Essay:
		if strings.TrimSpace(input.TextResponse) == "" {
			return nil, util.NewValidationError("Short answer and essay questions require a text response")
		}
	}

	resp, err := s.AttemptRepo.FindResponse(attemptID, questionID)
	isNew := false
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		resp = &model.QuizResponse{
			QuizAttemptID: attemptID,
			QuestionID:    questionID,
		}
		isNew = true
	}

	resp.SelectedOptionID = input.SelectedOptionID
	resp.TextResponse = input.TextResponse
	resp.MaxPoints = question.Points

	switch question.Type {
	case model.MultipleChoice:
		option, err := s.QuizRepo.FindOptionByID(*input.SelectedOptionID)
		if err == nil {
			correct := option.IsCorrect
			resp.IsCorrect = &correct
			if correct {
				resp.PointsAwarded = question.Points
			} else {
				resp.PointsAwarded = 0
			}
		}
		// 选项不存在时不判分，留空等待人工处理
	case model.TrueFalse:
		// TODO: 确认判断题是否应比较所选选项的真值；旧版将选项ID与布尔答案直接比较，
		// 结构上永远不相等，这里沿用旧版行为
		correct := false
		if question.CorrectAnswer != nil {
			correct = strconv.FormatUint(uint64(*input.SelectedOptionID), 10) ==
				strconv.FormatBool(*question.CorrectAnswer)
		}
		resp.IsCorrect = &correct
		if correct {
			resp.PointsAwarded = question.Points
		} else {
			resp.PointsAwarded = 0
		}
	}
	// short_answer / essay 留待人工评分

	if isNew {
		err = s.AttemptRepo.CreateResponse(resp)
	} else {
		err = s.AttemptRepo.SaveResponse(resp)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// ScoreAttempt 汇总一次答题的得分并在首次计分时完成状态流转。
// 没有作答或测验缺失时返回 0 且不做任何写入；重复计分只更新分数，
// 不再改动计时字段
func (s *GradingService) ScoreAttempt(attemptID uint) (float64, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrAttemptNotFound
		}
		return 0, err
	}

	responses, err := s.AttemptRepo.FindResponsesByAttempt(attemptID)
	if err != nil {
		return 0, err
	}

	quiz, quizErr := s.QuizRepo.FindByID(attempt.QuizID)
	if len(responses) == 0 || quizErr != nil {
		if quizErr != nil && !errors.Is(quizErr, gorm.ErrRecordNotFound) {
			return 0, quizErr
		}
		return 0, nil
	}

	var totalAwarded, totalPossible float64
	for _, resp := range responses {
		totalAwarded += resp.PointsAwarded
		totalPossible += resp.MaxPoints
	}

	percentage := 0.0
	if totalPossible > 0 {
		percentage = util.Round2(totalAwarded / totalPossible * 100)
	}

	attempt.Score = percentage
	attempt.IsPassed = percentage >= quiz.PassingScore

	if attempt.Status == model.AttemptInProgress {
		now := time.Now()
		attempt.Status = model.AttemptCompleted
		attempt.EndTime = &now
		attempt.TimeSpent = int(now.Sub(attempt.StartTime).Seconds())
	}

	if err := s.AttemptRepo.Save(attempt); err != nil {
		return 0, err
	}
	return percentage, nil
}

// AbandonAttempt 放弃答题，终态，不计分
func (s *GradingService) AbandonAttempt(attemptID, studentID uint) (*model.QuizAttempt, error) {
	attempt, err := s.AttemptRepo.FindByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.StudentID != studentID {
		return nil, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, util.ErrAttemptFinished
	}

	now := time.Now()
	attempt.Status = model.AttemptAbandoned
	attempt.EndTime = &now
	attempt.TimeSpent = int(now.Sub(attempt.StartTime).Seconds())
	if err := s.AttemptRepo.Save(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// GradeTextResponse 人工评分简答/论述题
func (s *GradingService) GradeTextResponse(responseID uint, points float64, feedback string, graderID uint) (*model.QuizResponse, error) {
	resp, err := s.AttemptRepo.FindResponseByID(responseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrResponseNotFound
		}
		return nil, err
	}

	if points < 0 || points > resp.MaxPoints {
		return nil, util.NewValidationError("points must be between 0 and the question's max points")
	}

	now := time.Now()
	correct := points >= resp.MaxPoints
	resp.PointsAwarded = points
	resp.IsCorrect = &correct
	resp.Feedback = feedback
	resp.GradedBy = &graderID
	resp.GradedAt = &now

	if err := s.AttemptRepo.SaveResponse(resp); err != nil {
		return nil, err
	}
	return resp, nil
}
