package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"

	"gorm.io/gorm"
)

// GradeService 成绩的录入、发布与课程总评计算
type GradeService struct {
	GradeRepo  *repository.GradeRepository
	CourseRepo *repository.CourseRepository
	QuizRepo   *repository.QuizRepository
	LessonRepo *repository.LessonRepository
}

func NewGradeService(
	gradeRepo *repository.GradeRepository,
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	lessonRepo *repository.LessonRepository,
) *GradeService {
	return &GradeService{
		GradeRepo:  gradeRepo,
		CourseRepo: courseRepo,
		QuizRepo:   quizRepo,
		LessonRepo: lessonRepo,
	}
}

type CreateGradeRequest struct {
	StudentID uint                `json:"studentId" binding:"required"`
	ItemID    uint                `json:"itemId" binding:"required"`
	ItemType  model.GradeItemType `json:"itemType" binding:"required"`
	Score     float64             `json:"score" binding:"min=0"`
	MaxScore  float64             `json:"maxScore" binding:"required,gt=0"`
	Feedback  string              `json:"feedback"`
	Weight    float64             `json:"weight"`
	Category  string              `json:"category"`
}

// CourseGradeSummary 课程总评：简单平均与加权平均
type CourseGradeSummary struct {
	CourseID      uint          `json:"courseId"`
	StudentID     uint          `json:"studentId"`
	TotalGrade    float64       `json:"totalGrade"`
	WeightedGrade float64       `json:"weightedGrade"`
	Grades        []model.Grade `json:"grades"`
}

func (s *GradeService) Create(courseID, graderID uint, req CreateGradeRequest) (*model.Grade, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	if req.Score > req.MaxScore {
		return nil, util.NewValidationError("score cannot exceed maxScore")
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
		StudentID: req.StudentID,
		CourseID:  courseID,
		ItemID:    req.ItemID,
		ItemType:  req.ItemType,
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
	return grade, nil
}

func (s *GradeService) GetByID(gradeID uint) (*model.Grade, error) {
	grade, err := s.GradeRepo.FindByID(gradeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGradeNotFound
		}
		return nil, err
	}
	return grade, nil
}

// Publish 发布后学生可见，并计入课程统计
func (s *GradeService) Publish(gradeID uint, published bool) (*model.Grade, error) {
	grade, err := s.GetByID(gradeID)
	if err != nil {
		return nil, err
	}
	grade.IsPublished = published
	if err := s.GradeRepo.Save(grade); err != nil {
		return nil, err
	}
	return grade, nil
}

func (s *GradeService) StudentGrades(courseID, studentID uint) ([]model.Grade, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.GradeRepo.FindPublishedByCourseAndStudent(courseID, studentID)
}

// CourseGrade 计算学生的课程总评，只统计已发布成绩。
// totalGrade 为简单平均，weightedGrade 按 weight 加权
func (s *GradeService) CourseGrade(courseID, studentID uint) (*CourseGradeSummary, error) {
	grades, err := s.StudentGrades(courseID, studentID)
	if err != nil {
		return nil, err
	}

	summary := &CourseGradeSummary{
		CourseID:  courseID,
		StudentID: studentID,
		Grades:    grades,
	}
	if len(grades) == 0 {
		return summary, nil
	}

	var sum, weightedSum, weightTotal float64
	for _, g := range grades {
		sum += g.Percentage
		weightedSum += g.Percentage * g.Weight
		weightTotal += g.Weight
	}
	summary.TotalGrade = util.Round2(sum / float64(len(grades)))
	if weightTotal > 0 {
		summary.WeightedGrade = util.Round2(weightedSum / weightTotal)
	}
	return summary, nil
}

// GradedItem 多态成绩项的解析结果
type GradedItem struct {
	Quiz       *model.Quiz   `json:"quiz,omitempty"`
	Assignment *model.Lesson `json:"assignment,omitempty"`
}

// ResolveItem 解析成绩指向的评分项；exam/project/participation 没有对应实体
func (s *GradeService) ResolveItem(grade *model.Grade) (*GradedItem, error) {
	item := &GradedItem{}
	switch grade.ItemType {
	case model.GradeItemQuiz:
		quiz, err := s.QuizRepo.FindByID(grade.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrQuizNotFound
			}
			return nil, err
		}
		item.Quiz = quiz
	case model.GradeItemAssignment:
		lesson, err := s.LessonRepo.FindAssignment(grade.ItemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrLessonNotFound
			}
			return nil, err
		}
		item.Assignment = lesson
	}
	return item, nil
}
