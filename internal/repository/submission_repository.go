package repository

import (
	"learnify_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(submission *model.Submission) error {
	return r.DB.Create(submission).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.First(&submission, id).Error
	return &submission, err
}

func (r *SubmissionRepository) Save(submission *model.Submission) error {
	return r.DB.Save(submission).Error
}

func (r *SubmissionRepository) FindByStudentAndAssignment(studentID, assignmentID uint) (*model.Submission, error) {
	var submission model.Submission
	err := r.DB.Where("student_id = ? AND assignment_id = ?", studentID, assignmentID).
		First(&submission).Error
	return &submission, err
}

func (r *SubmissionRepository) FindByAssignment(assignmentID uint) ([]model.Submission, error) {
	var submissions []model.Submission
	err := r.DB.Where("assignment_id = ?", assignmentID).Find(&submissions).Error
	return submissions, err
}

func (r *SubmissionRepository) FindByAssignmentIDs(assignmentIDs []uint) ([]model.Submission, error) {
	if len(assignmentIDs) == 0 {
		return nil, nil
	}
	var submissions []model.Submission
	err := r.DB.Where("assignment_id IN ?", assignmentIDs).Find(&submissions).Error
	return submissions, err
}
