package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// QuizService 测验与题目的创作端。总分是派生值，
// 题目增删改后由 CalculateTotalPoints 重算
type QuizService struct {
	QuizRepo   *repository.QuizRepository
	CourseRepo *repository.CourseRepository
}

func NewQuizService(quizRepo *repository.QuizRepository, courseRepo *repository.CourseRepository) *QuizService {
	return &QuizService{QuizRepo: quizRepo, CourseRepo: courseRepo}
}

type QuizRequest struct {
	Title            string     `json:"title" binding:"required"`
	Description      string     `json:"description"`
	LessonID         *uint      `json:"lessonId"`
	TimeLimit        int        `json:"timeLimit"`
	PassingScore     *float64   `json:"passingScore"`
	DueDate          *time.Time `json:"dueDate"`
	ShuffleQuestions bool       `json:"shuffleQuestions"`
	ShowResults      *bool      `json:"showResults"`
	AttemptsAllowed  *int       `json:"attemptsAllowed"`
}

type OptionRequest struct {
	Text        string `json:"text" binding:"required"`
	IsCorrect   bool   `json:"isCorrect"`
	Order       int    `json:"order"`
	Explanation string `json:"explanation"`
}

type QuestionRequest struct {
	Text          string             `json:"text" binding:"required"`
	Type          model.QuestionType `json:"type" binding:"required"`
	Points        float64            `json:"points"`
	Order         int                `json:"order"`
	Explanation   string             `json:"explanation"`
	SampleAnswer  string             `json:"sampleAnswer"`
	CorrectAnswer *bool              `json:"correctAnswer"`
	Options       []OptionRequest    `json:"options"`
}

func (s *QuizService) CreateQuiz(courseID uint, req QuizRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	quiz := &model.Quiz{
		CourseID:         courseID,
		LessonID:         req.LessonID,
		Title:            req.Title,
		Description:      req.Description,
		TimeLimit:        req.TimeLimit,
		PassingScore:     70,
		DueDate:          req.DueDate,
		ShuffleQuestions: req.ShuffleQuestions,
		ShowResults:      true,
		AttemptsAllowed:  1,
	}
	applyQuizOptions(quiz, req)

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) UpdateQuiz(quizID uint, req QuizRequest) (*model.Quiz, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}

	quiz.Title = req.Title
	quiz.Description = req.Description
	quiz.LessonID = req.LessonID
	quiz.TimeLimit = req.TimeLimit
	quiz.DueDate = req.DueDate
	quiz.ShuffleQuestions = req.ShuffleQuestions
	applyQuizOptions(quiz, req)

	if err := s.QuizRepo.Save(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) PublishQuiz(quizID uint, published bool) (*model.Quiz, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return nil, err
	}
	quiz.IsPublished = published
	if err := s.QuizRepo.Save(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(quizID uint) error {
	if _, err := s.GetQuiz(quizID); err != nil {
		return err
	}
	return s.QuizRepo.Delete(quizID)
}

func (s *QuizService) GetQuiz(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) GetQuizWithQuestions(quizID uint) (*model.Quiz, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) ListByCourse(courseID uint) ([]model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.QuizRepo.FindByCourse(courseID)
}

// AddQuestion 新增题目及其选项，并重算测验总分
func (s *QuizService) AddQuestion(quizID uint, req QuestionRequest) (*model.Question, error) {
	if _, err := s.GetQuiz(quizID); err != nil {
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	points := req.Points
	if points <= 0 {
		points = 1
	}

	question := &model.Question{
		QuizID:        quizID,
		Text:          req.Text,
		Type:          req.Type,
		Points:        points,
		Order:         req.Order,
		Explanation:   req.Explanation,
		SampleAnswer:  req.SampleAnswer,
		CorrectAnswer: req.CorrectAnswer,
	}
	if err := s.QuizRepo.CreateQuestion(question); err != nil {
		return nil, err
	}

	for _, o := range req.Options {
		option := &model.QuestionOption{
			QuestionID:  question.ID,
			Text:        o.Text,
			IsCorrect:   o.IsCorrect,
			Order:       o.Order,
			Explanation: o.Explanation,
		}
		if err := s.QuizRepo.CreateOption(option); err != nil {
			return nil, err
		}
		question.Options = append(question.Options, *option)
	}

	if _, err := s.CalculateTotalPoints(quizID); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) UpdateQuestion(questionID uint, req QuestionRequest) (*model.Question, error) {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuestionNotFound
		}
		return nil, err
	}
	if err := validateQuestion(req); err != nil {
		return nil, err
	}

	question.Text = req.Text
	question.Type = req.Type
	if req.Points > 0 {
		question.Points = req.Points
	}
	question.Order = req.Order
	question.Explanation = req.Explanation
	question.SampleAnswer = req.SampleAnswer
	question.CorrectAnswer = req.CorrectAnswer

	if err := s.QuizRepo.SaveQuestion(question); err != nil {
		return nil, err
	}
	if _, err := s.CalculateTotalPoints(question.QuizID); err != nil {
		return nil, err
	}
	return question, nil
}

func (s *QuizService) DeleteQuestion(questionID uint) error {
	question, err := s.QuizRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuestionNotFound
		}
		return err
	}
	if err := s.QuizRepo.DeleteQuestion(questionID); err != nil {
		return err
	}
	_, err = s.CalculateTotalPoints(question.QuizID)
	return err
}

// CalculateTotalPoints 重算并保存测验总分（全部题目分值之和）
func (s *QuizService) CalculateTotalPoints(quizID uint) (float64, error) {
	quiz, err := s.GetQuiz(quizID)
	if err != nil {
		return 0, err
	}

	questions, err := s.QuizRepo.FindQuestionsByQuiz(quizID)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, q := range questions {
		total += q.Points
	}

	quiz.TotalPoints = total
	if err := s.QuizRepo.Save(quiz); err != nil {
		return 0, err
	}
	return total, nil
}

func applyQuizOptions(quiz *model.Quiz, req QuizRequest) {
	if req.PassingScore != nil {
		quiz.PassingScore = *req.PassingScore
	}
	if req.ShowResults != nil {
		quiz.ShowResults = *req.ShowResults
	}
	if req.AttemptsAllowed != nil {
		quiz.AttemptsAllowed = *req.AttemptsAllowed
	}
}

func validateQuestion(req QuestionRequest) error {
	switch req.Type {
	case model.MultipleChoice:
		if len(req.Options) < 2 {
			return util.NewValidationError("multiple choice questions require at least two options")
		}
		correct := 0
		for _, o := range req.Options {
			if o.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return util.NewValidationError("multiple choice questions require exactly one correct option")
		}
	case model.TrueFalse:
		if req.CorrectAnswer == nil {
			return util.NewValidationError("true/false questions require a correctAnswer")
		}
	case model.ShortAnswer, model.Essay:
		if len(req.Options) > 0 {
			return util.NewValidationError("text questions do not accept options")
		}
	default:
		return util.NewValidationError("invalid question type")
	}
	return nil
}
