package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type QuizAttemptRepository struct {
	DB *gorm.DB
}

func NewQuizAttemptRepository(db *gorm.DB) *QuizAttemptRepository {
	return &QuizAttemptRepository{DB: db}
}

func (r *QuizAttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *QuizAttemptRepository) FindByID(id uint) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.First(&attempt, id).Error
	return &attempt, err
}

func (r *QuizAttemptRepository) Save(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *QuizAttemptRepository) FindByQuizAndStudent(quizID, studentID uint) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Order("attempt_number ASC").Find(&attempts).Error
	return attempts, err
}

func (r *QuizAttemptRepository) CountByQuizAndStudent(quizID, studentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Count(&count).Error
	return count, err
}

// MaxAttemptNumber 当前最大次数，无记录时返回 0
func (r *QuizAttemptRepository) MaxAttemptNumber(quizID, studentID uint) (int, error) {
	var max int
	err := r.DB.Model(&model.QuizAttempt{}).
		Where("quiz_id = ? AND student_id = ?", quizID, studentID).
		Select("COALESCE(MAX(attempt_number), 0)").Scan(&max).Error
	return max, err
}

func (r *QuizAttemptRepository) FindCompletedByQuizIDs(quizIDs []uint) ([]model.QuizAttempt, error) {
	if len(quizIDs) == 0 {
		return nil, nil
	}
	var attempts []model.QuizAttempt
	err := r.DB.Where("quiz_id IN ? AND status = ?", quizIDs, model.AttemptCompleted).
		Find(&attempts).Error
	return attempts, err
}

// --- 作答 ---

func (r *QuizAttemptRepository) FindResponse(attemptID, questionID uint) (*model.QuizResponse, error) {
	var resp model.QuizResponse
	err := r.DB.Where("quiz_attempt_id = ? AND question_id = ?", attemptID, questionID).
		First(&resp).Error
	return &resp, err
}

func (r *QuizAttemptRepository) FindResponseByID(id uint) (*model.QuizResponse, error) {
	var resp model.QuizResponse
	err := r.DB.First(&resp, id).Error
	return &resp, err
}

func (r *QuizAttemptRepository) FindResponsesByAttempt(attemptID uint) ([]model.QuizResponse, error) {
	var responses []model.QuizResponse
	err := r.DB.Where("quiz_attempt_id = ?", attemptID).Find(&responses).Error
	return responses, err
}

func (r *QuizAttemptRepository) CreateResponse(resp *model.QuizResponse) error {
	return r.DB.Create(resp).Error
}

func (r *QuizAttemptRepository) SaveResponse(resp *model.QuizResponse) error {
	return r.DB.Save(resp).Error
}
