package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// CourseService 课程生命周期：创建、编辑、发布/归档、删除。
// 创建课程时同步建立零值统计快照
type CourseService struct {
	CourseRepo    *repository.CourseRepository
	AnalyticsRepo *repository.AnalyticsRepository
	Storage       *StorageService
}

func NewCourseService(courseRepo *repository.CourseRepository, analyticsRepo *repository.AnalyticsRepository, storage *StorageService) *CourseService {
	return &CourseService{
		CourseRepo:    courseRepo,
		AnalyticsRepo: analyticsRepo,
		Storage:       storage,
	}
}

type CreateCourseRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	StartDate   time.Time  `json:"startDate" binding:"required"`
	EndDate     *time.Time `json:"endDate"`
}

type UpdateCourseRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	StartDate   *time.Time `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
}

func (s *CourseService) Create(instructorID uint, req CreateCourseRequest) (*model.Course, error) {
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		return nil, util.NewValidationError("endDate must be after startDate")
	}

	course := &model.Course{
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: instructorID,
		Status:       model.CourseDraft,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
	}
	course.GenerateSlug()

	if err := s.CourseRepo.Create(course); err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, util.ErrDuplicateSlug
		}
		return nil, err
	}

	// 统计快照随课程创建，读取方无需处理缺失
	if _, err := s.AnalyticsRepo.GetOrCreate(course.ID); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(courseID uint, req UpdateCourseRequest) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil && *req.Title != course.Title {
		course.Title = *req.Title
		course.GenerateSlug()
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.StartDate != nil {
		course.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		course.EndDate = req.EndDate
	}
	if course.EndDate != nil && course.EndDate.Before(course.StartDate) {
		return nil, util.NewValidationError("endDate must be after startDate")
	}

	if err := s.CourseRepo.Save(course); err != nil {
		if util.IsDuplicateKeyError(err) {
			return nil, util.ErrDuplicateSlug
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) ChangeStatus(courseID uint, status model.CourseStatus) (*model.Course, error) {
	switch status {
	case model.CourseDraft, model.CoursePublished, model.CourseArchived:
	default:
		return nil, util.NewValidationError("invalid course status")
	}

	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}
	course.Status = status
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

// Delete 删除课程及其统计快照（同一事务）
func (s *CourseService) Delete(courseID uint) error {
	if _, err := s.findCourse(courseID); err != nil {
		return err
	}
	return s.CourseRepo.DeleteWithAnalytics(courseID)
}

func (s *CourseService) GetByID(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithModules(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) GetBySlug(slugStr string) (*model.Course, error) {
	course, err := s.CourseRepo.FindBySlug(slugStr)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// List 课程列表。非管理端查询默认只返回已发布课程
func (s *CourseService) List(filter repository.CourseFilter, privileged bool) ([]model.Course, error) {
	if !privileged && filter.Status == "" {
		filter.Status = model.CoursePublished
	}
	return s.CourseRepo.Find(filter)
}

func (s *CourseService) ListByInstructor(instructorID uint) ([]model.Course, error) {
	return s.CourseRepo.FindByInstructor(instructorID)
}

// UploadCover 上传课程封面图
func (s *CourseService) UploadCover(ctx context.Context, courseID uint, filename string, reader io.Reader, size int64, contentType string) (*model.Course, error) {
	course, err := s.findCourse(courseID)
	if err != nil {
		return nil, err
	}

	objectName := fmt.Sprintf("covers/%d/%s%s", courseID, model.GenerateUUID(), filepath.Ext(filename))
	url, err := s.Storage.Upload(ctx, objectName, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	course.CoverImage = url
	if err := s.CourseRepo.Save(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) findCourse(courseID uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}
