package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// SubmissionService 作业提交与批改。批改会生成一条成绩记录并回填到提交上
type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	LessonRepo     *repository.LessonRepository
	ModuleRepo     *repository.ModuleRepository
	GradeRepo      *repository.GradeRepository
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	lessonRepo *repository.LessonRepository,
	moduleRepo *repository.ModuleRepository,
	gradeRepo *repository.GradeRepository,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		LessonRepo:     lessonRepo,
		ModuleRepo:     moduleRepo,
		GradeRepo:      gradeRepo,
	}
}

type SubmitRequest struct {
	SubmissionText string             `json:"submissionText"`
	FileURL        string             `json:"fileUrl"`
	Attachments    []model.Attachment `json:"attachments"`
}

type GradeSubmissionRequest struct {
	Score    float64 `json:"score" binding:"min=0"`
	MaxScore float64 `json:"maxScore" binding:"required,gt=0"`
	Feedback string  `json:"feedback"`
	Weight   float64 `json:"weight"`
	Category string  `json:"category"`
}

// Submit 提交作业。同一学生对同一作业只允许一次提交
func (s *SubmissionService) Submit(studentID, assignmentID uint, req SubmitRequest) (*model.Submission, error) {
	assignment, err := s.LessonRepo.FindAssignment(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.NewValidationError("Invalid assignment reference")
		}
		return nil, err
	}

	now := time.Now()
	submission := &model.Submission{
		StudentID:      studentID,
		AssignmentID:   assignmentID,
		SubmissionText: req.SubmissionText,
		FileURL:        req.FileURL,
		Attachments:    req.Attachments,
		SubmittedAt:    now,
		Status:         model.SubmissionSubmitted,
		IsLate:         assignment.DueDate != nil && now.After(*assignment.DueDate),
	}
	if !submission.HasContent() {
		return nil, util.NewValidationError("Submission must include text, a file, or attachments")
	}

	if err := s.SubmissionRepo.Create(submission); err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, util.ErrDuplicateSubmission
		}
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) GetByID(submissionID uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) GetOwn(studentID, assignmentID uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByStudentAndAssignment(studentID, assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	if _, err := s.LessonRepo.FindAssignment(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return s.SubmissionRepo.FindByAssignment(assignmentID)
}

// ListByCourse 课程下全部作业的提交，批改列表用
func (s *SubmissionService) ListByCourse(courseID uint) ([]model.Submission, error) {
	modules, err := s.ModuleRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)
	}
	if len(moduleIDs) == 0 {
		return []model.Submission{}, nil
	}

	assignments, err := s.LessonRepo.FindAssignmentsByModuleIDs(moduleIDs)
	if err != nil {
		return nil, err
	}
	assignmentIDs := make([]uint, 0, len(assignments))
	for _, a := range assignments {
		assignmentIDs = append(assignmentIDs, a.ID)
	}
	if len(assignmentIDs) == 0 {
		return []model.Submission{}, nil
	}
	return s.SubmissionRepo.FindByAssignmentIDs(assignmentIDs)
}

func (s *SubmissionService) AddComment(submissionID, userID uint, text string) (*model.Submission, error) {
	if text == "" {
		return nil, util.NewValidationError("comment text is required")
	}

	submission, err := s.GetByID(submissionID)
	if err != nil {
		return nil, err
	}

	submission.Comments = append(submission.Comments, model.SubmissionComment{
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now(),
	})
	if err := s.SubmissionRepo.Save(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// Grade 批改提交：生成成绩记录、回填 gradeId 并将提交置为 graded
func (s *SubmissionService) Grade(submissionID, graderID uint, req GradeSubmissionRequest) (*model.Grade, error) {
	if req.Score > req.MaxScore {
		return nil, util.NewValidationError("score cannot exceed maxScore")
	}

	submission, err := s.GetByID(submissionID)
	if err != nil {
		return nil, err
	}

	assignment, err := s.LessonRepo.FindAssignment(submission.AssignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	module, err := s.ModuleRepo.FindByID(assignment.ModuleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	weight := req.Weight
	if weight <= 0 {
		weight = 1
	}
	category := req.Category
	if category == "" {
		category = "uncategorized"
	}

	grade := &model.Grade{
		StudentID: submission.StudentID,
		CourseID:  module.CourseID,
		ItemID:    submission.AssignmentID,
		ItemType:  model.GradeItemAssignment,
		Score:     req.Score,
		MaxScore:  req.MaxScore,
		Feedback:  req.Feedback,
		GradedBy:  graderID,
		GradedAt:  time.Now(),
		Weight:    weight,
		Category:  category,
	}
	grade.ComputePercentage()

	if err := s.GradeRepo.Create(grade); err != nil {
		return nil, err
	}

	submission.GradeID = &grade.ID
	submission.Status = model.SubmissionGraded
	if err := s.SubmissionRepo.Save(submission); err != nil {
		return nil, err
	}
	return grade, nil
}
