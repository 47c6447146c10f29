package service

import (
	"errors"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// EnrollmentService 选课与学习进度
type EnrollmentService struct {
	EnrollmentRepo *repository.EnrollmentRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
}

func NewEnrollmentService(
	enrollmentRepo *repository.EnrollmentRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
) *EnrollmentService {
	return &EnrollmentService{
		EnrollmentRepo: enrollmentRepo,
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
	}
}

// Enroll 报名课程，只允许已发布课程
func (s *EnrollmentService) Enroll(studentID, courseID uint) (*model.Enrollment, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if course.Status != model.CoursePublished {
		return nil, util.NewValidationError("course is not open for enrollment")
	}

	enrollment := &model.Enrollment{
		StudentID:      studentID,
		CourseID:       courseID,
		Status:         model.EnrollmentActive,
		ModuleProgress: model.ModuleProgressList{},
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) Get(studentID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.EnrollmentRepo.FindByStudentAndCourse(studentID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) ListByStudent(studentID uint) ([]model.Enrollment, error) {
	return s.EnrollmentRepo.FindByStudent(studentID)
}

func (s *EnrollmentService) ListByCourse(courseID uint) ([]model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.EnrollmentRepo.FindByCourse(courseID)
}

// UpdateModuleProgress 更新某模块的完成度，并把总进度重算为各模块完成度的平均值。
// 全部模块完成后报名状态流转为 completed
func (s *EnrollmentService) UpdateModuleProgress(studentID, courseID, moduleID uint, completion float64) (*model.Enrollment, error) {
	if completion < 0 || completion > 100 {
		return nil, util.NewValidationError("completionPercentage must be between 0 and 100")
	}

	enrollment, err := s.Get(studentID, courseID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status == model.EnrollmentDropped {
		return nil, util.NewValidationError("enrollment has been dropped")
	}

	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	if module.CourseID != courseID {
		return nil, util.NewValidationError("module does not belong to this course")
	}

	if mp := enrollment.FindModuleProgress(moduleID); mp != nil {
		mp.CompletionPercentage = completion
	} else {
		enrollment.ModuleProgress = append(enrollment.ModuleProgress, model.ModuleProgress{
			ModuleID:             moduleID,
			CompletionPercentage: completion,
		})
	}

	modules, err := s.ModuleRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	if len(modules) > 0 {
		var sum float64
		for _, m := range modules {
			if mp := enrollment.FindModuleProgress(m.ID); mp != nil {
				sum += mp.CompletionPercentage
			}
		}
		enrollment.Progress = util.Round2(sum / float64(len(modules)))
	}
	if enrollment.Progress >= 100 {
		enrollment.Status = model.EnrollmentCompleted
	}

	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) Drop(studentID, courseID uint) (*model.Enrollment, error) {
	enrollment, err := s.Get(studentID, courseID)
	if err != nil {
		return nil, err
	}
	enrollment.Status = model.EnrollmentDropped
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}
