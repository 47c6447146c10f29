package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"learnify_backend/internal/config"
	"learnify_backend/internal/controller"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/service"
	"learnify_backend/pkg/database"
	"learnify_backend/pkg/logger"
	"learnify_backend/pkg/monitoring"
	"learnify_backend/pkg/security"
	"learnify_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	code       *repository.VerificationCodeRepository
	course     *repository.CourseRepository
	module     *repository.ModuleRepository
	lesson     *repository.LessonRepository
	quiz       *repository.QuizRepository
	attempt    *repository.QuizAttemptRepository
	grade      *repository.GradeRepository
	submission *repository.SubmissionRepository
	enrollment *repository.EnrollmentRepository
	analytics  *repository.AnalyticsRepository
}

type services struct {
	storage    *service.StorageService
	email      *service.EmailService
	auth       *service.AuthService
	course     *service.CourseService
	content    *service.ContentService
	quiz       *service.QuizService
	grading    *service.GradingService
	submission *service.SubmissionService
	grade      *service.GradeService
	enrollment *service.EnrollmentService
	analytics  *service.AnalyticsService
}

type controllers struct {
	auth       *controller.AuthController
	course     *controller.CourseController
	module     *controller.ModuleController
	lesson     *controller.LessonController
	quiz       *controller.QuizController
	attempt    *controller.AttemptController
	submission *controller.SubmissionController
	grade      *controller.GradeController
	enrollment *controller.EnrollmentController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		code:       repository.NewVerificationCodeRepository(db),
		course:     repository.NewCourseRepository(db),
		module:     repository.NewModuleRepository(db),
		lesson:     repository.NewLessonRepository(db),
		quiz:       repository.NewQuizRepository(db),
		attempt:    repository.NewQuizAttemptRepository(db),
		grade:      repository.NewGradeRepository(db),
		submission: repository.NewSubmissionRepository(db),
		enrollment: repository.NewEnrollmentRepository(db),
		analytics:  repository.NewAnalyticsRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.email = service.NewEmailService(cfg.SMTP)
	s.auth = service.NewAuthService(repos.user, repos.code, s.email, rdb, cfg.JWT, cfg.Frontend)
	s.course = service.NewCourseService(repos.course, repos.analytics, s.storage)
	s.content = service.NewContentService(repos.course, repos.module, repos.lesson, repos.quiz, s.storage)
	s.quiz = service.NewQuizService(repos.quiz, repos.course)
	s.grading = service.NewGradingService(repos.quiz, repos.attempt)
	s.submission = service.NewSubmissionService(repos.submission, repos.lesson, repos.module, repos.grade)
	s.grade = service.NewGradeService(repos.grade, repos.course, repos.quiz, repos.lesson)
	s.enrollment = service.NewEnrollmentService(repos.enrollment, repos.course, repos.module)
	s.analytics = service.NewAnalyticsService(
		repos.analytics,
		repos.course,
		repos.module,
		repos.lesson,
		repos.quiz,
		repos.attempt,
		repos.grade,
		repos.submission,
		repos.enrollment,
	)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth),
		course:     controller.NewCourseController(s.course, s.analytics),
		module:     controller.NewModuleController(s.content, s.course),
		lesson:     controller.NewLessonController(s.content, s.course),
		quiz:       controller.NewQuizController(s.quiz, s.course),
		attempt:    controller.NewAttemptController(s.grading, repos.attempt),
		submission: controller.NewSubmissionController(s.submission),
		grade:      controller.NewGradeController(s.grade, s.course),
		enrollment: controller.NewEnrollmentController(s.enrollment, s.course),
		health:     controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks 周期清理过期验证码
func (a *App) startBackgroundTasks(repos *repositories) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			if err := repos.code.DeleteExpired(); err != nil {
				logger.Log.Error("清理过期验证码失败", zap.Error(err))
			}
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db, rdb)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("learnify", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.startBackgroundTasks(repos)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（5秒超时）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
