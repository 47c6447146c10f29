package service

import (
	"errors"
	"time"

	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/util"
	"learnify_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// AnalyticsService 按课程维度重算统计快照。重算是全量覆盖式的：
// 每次从各实体表取数重新计算，不做增量更新
type AnalyticsService struct {
	AnalyticsRepo  *repository.AnalyticsRepository
	CourseRepo     *repository.CourseRepository
	ModuleRepo     *repository.ModuleRepository
	LessonRepo     *repository.LessonRepository
	QuizRepo       *repository.QuizRepository
	AttemptRepo    *repository.QuizAttemptRepository
	GradeRepo      *repository.GradeRepository
	SubmissionRepo *repository.SubmissionRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewAnalyticsService(
	analyticsRepo *repository.AnalyticsRepository,
	courseRepo *repository.CourseRepository,
	moduleRepo *repository.ModuleRepository,
	lessonRepo *repository.LessonRepository,
	quizRepo *repository.QuizRepository,
	attemptRepo *repository.QuizAttemptRepository,
	gradeRepo *repository.GradeRepository,
	submissionRepo *repository.SubmissionRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *AnalyticsService {
	return &AnalyticsService{
		AnalyticsRepo:  analyticsRepo,
		CourseRepo:     courseRepo,
		ModuleRepo:     moduleRepo,
		LessonRepo:     lessonRepo,
		QuizRepo:       quizRepo,
		AttemptRepo:    attemptRepo,
		GradeRepo:      gradeRepo,
		SubmissionRepo: submissionRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// GetOrCreate 读取课程统计，不存在时惰性创建零值快照
func (s *AnalyticsService) GetOrCreate(courseID uint) (*model.CourseAnalytics, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.AnalyticsRepo.GetOrCreate(courseID)
}

// Recalculate 全量重算课程统计并覆盖保存
func (s *AnalyticsService) Recalculate(courseID uint) (*model.CourseAnalytics, error) {
	start := time.Now()
	defer func() {
		monitoring.AnalyticsRecalcDuration.Observe(time.Since(start).Seconds())
	}()

	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	analytics, err := s.AnalyticsRepo.GetOrCreate(courseID)
	if err != nil {
		return nil, err
	}

	// 在读学员：active + completed
	counted, err := s.EnrollmentRepo.FindCountedByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.TotalStudents = len(counted)

	analytics.AverageCompletion = 0
	if len(counted) > 0 {
		var sum float64
		for _, e := range counted {
			sum += e.Progress
		}
		analytics.AverageCompletion = sum / float64(len(counted))
	}

	// 已发布成绩的平均百分比
	publishedGrades, err := s.GradeRepo.FindPublishedByCourse(courseID)
	if err != nil {
		return nil, err
	}
	analytics.AverageScore = 0
	if len(publishedGrades) > 0 {
		var sum float64
		for _, g := range publishedGrades {
			sum += g.Percentage
		}
		analytics.AverageScore = sum / float64(len(publishedGrades))
	}

	modules, err := s.ModuleRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	// 模块完成率基于报名记录里的模块进度条目，一次取出课程全部报名后在内存中过滤
	allEnrollments, err := s.EnrollmentRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	rates := make(model.ModuleCompletionRateList, 0, len(modules))
	moduleIDs := make([]uint, 0, len(modules))
	for _, m := range modules {
		moduleIDs = append(moduleIDs, m.ID)

		var sum float64
		var n int
		for _, e := range allEnrollments {
			if mp := e.FindModuleProgress(m.ID); mp != nil {
				sum += mp.CompletionPercentage
				n++
			}
		}
		rate := 0.0
		if n > 0 {
			rate = sum / float64(n)
		}
		rates = append(rates, model.ModuleCompletionRate{
			ModuleID:       m.ID,
			CompletionRate: rate,
		})
	}
	analytics.ModuleCompletionRates = rates

	// 测验：课程下全部测验的已完成答题
	quizzes, err := s.QuizRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		quizIDs = append(quizIDs, q.ID)
	}

	analytics.QuizAttemptStats = model.QuizAttemptStats{}
	if len(quizIDs) > 0 {
		attempts, err := s.AttemptRepo.FindCompletedByQuizIDs(quizIDs)
		if err != nil {
			return nil, err
		}
		if len(attempts) > 0 {
			var scoreSum float64
			var passed int
			for _, a := range attempts {
				scoreSum += a.Score
				if a.IsPassed {
					passed++
				}
			}
			analytics.QuizAttemptStats = model.QuizAttemptStats{
				TotalAttempts: len(attempts),
				AverageScore:  scoreSum / float64(len(attempts)),
				PassRate:      float64(passed) / float64(len(attempts)) * 100,
			}
		}
	}

	// 作业：提交总数、迟交数、已评分提交的平均百分比
	analytics.AssignmentStats = model.AssignmentStats{}
	if len(moduleIDs) > 0 {
		assignments, err := s.LessonRepo.FindAssignmentsByModuleIDs(moduleIDs)
		if err != nil {
			return nil, err
		}
		assignmentIDs := make([]uint, 0, len(assignments))
		for _, a := range assignments {
			assignmentIDs = append(assignmentIDs, a.ID)
		}
		if len(assignmentIDs) > 0 {
			submissions, err := s.SubmissionRepo.FindByAssignmentIDs(assignmentIDs)
			if err != nil {
				return nil, err
			}

			var late int
			gradeIDs := make([]uint, 0)
			for _, sub := range submissions {
				if sub.IsLate {
					late++
				}
				if sub.GradeID != nil {
					gradeIDs = append(gradeIDs, *sub.GradeID)
				}
			}

			avg := 0.0
			if len(gradeIDs) > 0 {
				grades, err := s.GradeRepo.FindByIDs(gradeIDs)
				if err != nil {
					return nil, err
				}
				if len(grades) > 0 {
					var sum float64
					for _, g := range grades {
						sum += g.Percentage
					}
					avg = sum / float64(len(grades))
				}
			}

			analytics.AssignmentStats = model.AssignmentStats{
				TotalSubmitted:  len(submissions),
				AverageScore:    avg,
				LateSubmissions: late,
			}
		}
	}

	analytics.LastUpdated = time.Now()
	if err := s.AnalyticsRepo.Save(analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}
