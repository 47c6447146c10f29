package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByIDWithQuestions(id uint) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("questions.`order` ASC")
	}).Preload("Questions.Options", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_options.`order` ASC")
	}).First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByCourse(courseID uint) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("course_id = ?", courseID).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Save(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Quiz{}, id).Error
}

// --- 题目 ---

func (r *QuizRepository) CreateQuestion(q *model.Question) error {
	return r.DB.Create(q).Error
}

func (r *QuizRepository) FindQuestionByID(id uint) (*model.Question, error) {
	var q model.Question
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *QuizRepository) FindQuestionsByQuiz(quizID uint) ([]model.Question, error) {
	var questions []model.Question
	err := r.DB.Where("quiz_id = ?", quizID).
		Order("`order` ASC").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) SaveQuestion(q *model.Question) error {
	return r.DB.Save(q).Error
}

func (r *QuizRepository) DeleteQuestion(id uint) error {
	return r.DB.Delete(&model.Question{}, id).Error
}

// --- 选项 ---

func (r *QuizRepository) CreateOption(o *model.QuestionOption) error {
	return r.DB.Create(o).Error
}

func (r *QuizRepository) FindOptionByID(id uint) (*model.QuestionOption, error) {
	var o model.QuestionOption
	err := r.DB.First(&o, id).Error
	return &o, err
}

func (r *QuizRepository) FindOptionsByQuestion(questionID uint) ([]model.QuestionOption, error) {
	var options []model.QuestionOption
	err := r.DB.Where("question_id = ?", questionID).
		Order("`order` ASC").Find(&options).Error
	return options, err
}

func (r *QuizRepository) SaveOption(o *model.QuestionOption) error {
	return r.DB.Save(o).Error
}

func (r *QuizRepository) DeleteOption(id uint) error {
	return r.DB.Delete(&model.QuestionOption{}, id).Error
}
