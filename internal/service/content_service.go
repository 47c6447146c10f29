package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ContentService 模块与课时的编排：排序、按类型的条件字段校验、视频上传
type ContentService struct {
	CourseRepo *repository.CourseRepository
	ModuleRepo *repository.ModuleRepository
	LessonRepo *repository.LessonRepository
	QuizRepo   *repository.QuizRepository
	Storage    *StorageService
}

func NewContentService(
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	storage *StorageService,
) *ContentService {
	return &ContentService{
		CourseRepo: courseRepo,
		ModuleRepo: moduleRepo,
		LessonRepo: lessonRepo,
		QuizRepo:   quizRepo,
		Storage:    storage,
	}
}

type ModuleRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Order       int    `json:"order"`
	IsPublished *bool  `json:"isPublished"`
}

type LessonRequest struct {
	Title       string           `json:"title" binding:"required"`
	Content     string           `json:"content" binding:"required"`
	Order       int              `json:"order"`
	Type        model.LessonType `json:"type" binding:"required"`
	Duration    int              `json:"duration"`
	IsPublished *bool            `json:"isPublished"`
	VideoURL    string           `json:"videoUrl"`
	FileURL     string           `json:"fileUrl"`
	QuizID      *uint            `json:"quizId"`
	DueDate     *time.Time       `json:"dueDate"`
}

// --- 模块 ---

func (s *ContentService) CreateModule(courseID uint, req ModuleRequest) (*model.Module, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	module := &model.Module{
		CourseID:    courseID,
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
	}
	if req.IsPublished != nil {
		module.IsPublished = *req.IsPublished
	}
	if err := s.ModuleRepo.Create(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) UpdateModule(moduleID uint, req ModuleRequest) (*model.Module, error) {
	module, err := s.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	module.Title = req.Title
	module.Description = req.Description
	module.Order = req.Order
	if req.IsPublished != nil {
		module.IsPublished = *req.IsPublished
	}
	if err := s.ModuleRepo.Save(module); err != nil {
		return nil, err
	}
	return module, nil
}

func (s *ContentService) DeleteModule(moduleID uint) error {
	if _, err := s.GetModule(moduleID); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(moduleID)
}

func (s *ContentService) GetModule(moduleID uint) (*model.Module, error) {
	module, err := s.ModuleRepo.FindByID(moduleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return module, nil
}

func (s *ContentService) ListModules(courseID uint) ([]model.Module, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.ModuleRepo.FindByCourse(courseID)
}

// --- 课时 ---

func (s *ContentService) CreateLesson(moduleID uint, req LessonRequest) (*model.Lesson, error) {
	module, err := s.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	lesson := &model.Lesson{
		ModuleID: module.ID,
		Title:    req.Title,
		Content:  req.Content,
		Order:    req.Order,
		Type:     req.Type,
		Duration: req.Duration,
		VideoURL: req.VideoURL,
		FileURL:  req.FileURL,
		QuizID:   req.QuizID,
		DueDate:  req.DueDate,
	}
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.validateLesson(lesson); err != nil {
		return nil, err
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) UpdateLesson(lessonID uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}

	lesson.Title = req.Title
	lesson.Content = req.Content
	lesson.Order = req.Order
	lesson.Type = req.Type
	lesson.Duration = req.Duration
	lesson.VideoURL = req.VideoURL
	lesson.FileURL = req.FileURL
	lesson.QuizID = req.QuizID
	lesson.DueDate = req.DueDate
	if req.IsPublished != nil {
		lesson.IsPublished = *req.IsPublished
	}

	if err := s.validateLesson(lesson); err != nil {
		return nil, err
	}
	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) DeleteLesson(lessonID uint) error {
	if _, err := s.GetLesson(lessonID); err != nil {
		return err
	}
	return s.LessonRepo.Delete(lessonID)
}

func (s *ContentService) GetLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *ContentService) ListLessons(moduleID uint) ([]model.Lesson, error) {
	if _, err := s.GetModule(moduleID); err != nil {
		return nil, err
	}
	return s.LessonRepo.FindByModule(moduleID)
}

// UploadLessonVideo 上传课时视频并用 ffprobe 探测时长。
// localPath 为控制器保存的临时文件
func (s *ContentService) UploadLessonVideo(ctx context.Context, lessonID uint, localPath, filename, contentType string) (*model.Lesson, error) {
	lesson, err := s.GetLesson(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson.Type != model.LessonVideo {
		return nil, util.NewValidationError("only video lessons accept a video upload")
	}

	ext := strings.ToLower(filepath.Ext(filename))
	allowed := false
	for _, e := range util.AllowedVideoExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, util.NewValidationError("unsupported video format: " + ext)
	}

	objectName := fmt.Sprintf("videos/%d/%s%s", lesson.ModuleID, model.GenerateUUID(), ext)
	url, err := s.Storage.UploadFile(ctx, objectName, localPath, contentType)
	if err != nil {
		return nil, err
	}

	lesson.VideoURL = url
	// 探测失败只丢掉时长，不影响上传结果
	if info, err := util.GetVideoInfo(localPath); err != nil {
		zap.L().Warn("探测视频时长失败", zap.Uint("lessonId", lesson.ID), zap.Error(err))
	} else {
		lesson.Duration = int(math.Ceil(info.Duration / 60))
	}

	if err := s.LessonRepo.Save(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

// validateLesson 按类型校验条件字段
func (s *ContentService) validateLesson(l *model.Lesson) error {
	switch l.Type {
	case model.LessonVideo:
		// videoUrl 可后续通过上传接口补齐
	case model.LessonText:
	case model.LessonPDF:
		if l.FileURL == "" {
			return util.NewValidationError("PDF lessons require a fileUrl")
		}
	case model.LessonQuiz:
		if l.QuizID == nil {
			return util.NewValidationError("quiz lessons require a quizId")
		}
		if _, err := s.QuizRepo.FindByID(*l.QuizID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return util.NewValidationError("referenced quiz does not exist")
			}
			return err
		}
	case model.LessonAssignment:
		if l.DueDate == nil {
			return util.NewValidationError("assignment lessons require a dueDate")
		}
	default:
		return util.NewValidationError("invalid lesson type")
	}
	return nil
}
