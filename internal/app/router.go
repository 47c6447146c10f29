package app

import (
	"learnify_backend/docs"
	"learnify_backend/internal/config"
	"learnify_backend/internal/middleware"
	"learnify_backend/internal/model"
	"learnify_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由（无需登录）
	a.registerPublicRoutes(router, c, cfg)

	// 2. 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		a.registerStudentRoutes(authGroup, c)
		a.registerInstructorRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)

		auth := public.Group("/auth")
		{
			auth.POST("/register", c.auth.Register)
			auth.POST("/login", c.auth.Login)
			auth.POST("/refresh", c.auth.Refresh)
			auth.POST("/logout", c.auth.Logout)
			auth.POST("/forgot-password", c.auth.ForgotPassword)
			auth.GET("/reset-password/:token", c.auth.VerifyResetToken)
			auth.POST("/reset-password/:token", c.auth.ResetPassword)
		}

		// 课程目录：游客可浏览已发布课程，讲师登录后可见草稿
		public.GET("/courses", middleware.TryAuthMiddleware(cfg), c.course.List)
		public.GET("/courses/slug/:slug", middleware.TryAuthMiddleware(cfg), c.course.GetBySlug)
		public.GET("/courses/:courseId", middleware.TryAuthMiddleware(cfg), c.course.Get)
		public.GET("/courses/:courseId/modules", c.module.List)
		public.GET("/modules/:moduleId/lessons", c.lesson.List)
		public.GET("/lessons/:id", c.lesson.Get)
	}
}

func (a *App) registerStudentRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/auth/me", c.auth.Profile)
	rg.POST("/auth/verify-email", c.auth.VerifyEmail)
	rg.POST("/auth/resend-verification", c.auth.ResendVerification)

	// 选课与进度
	rg.GET("/enrollments", c.enrollment.ListMine)
	rg.POST("/courses/:courseId/enroll", c.enrollment.Enroll)
	rg.GET("/courses/:courseId/enrollment", c.enrollment.GetMine)
	rg.PUT("/courses/:courseId/enrollment/progress", c.enrollment.UpdateProgress)
	rg.DELETE("/courses/:courseId/enrollment", c.enrollment.Drop)

	// 测验与答题
	rg.GET("/courses/:courseId/quizzes", c.quiz.ListByCourse)
	rg.GET("/quizzes/:quizId", c.quiz.Get)
	rg.POST("/quizzes/:quizId/attempts", c.attempt.Start)
	rg.GET("/quizzes/:quizId/attempts", c.attempt.ListMine)
	rg.GET("/attempts/:id", c.attempt.Get)
	rg.PUT("/attempts/:id/responses/:questionId", c.attempt.SubmitResponse)
	rg.POST("/attempts/:id/submit", c.attempt.Submit)
	rg.POST("/attempts/:id/abandon", c.attempt.Abandon)

	// 作业
	rg.POST("/assignments/:assignmentId/submissions", c.submission.Submit)
	rg.GET("/assignments/:assignmentId/submissions/mine", c.submission.GetMine)
	rg.GET("/submissions/:id", c.submission.Get)
	rg.POST("/submissions/:id/comments", c.submission.AddComment)

	// 成绩
	rg.GET("/courses/:courseId/grades/mine", c.grade.MyGrades)
	rg.GET("/courses/:courseId/grades/summary", c.grade.CourseGrade)
	rg.GET("/grades/:id", c.grade.Get)
}

func (a *App) registerInstructorRoutes(rg *gin.RouterGroup, c *controllers) {
	instructor := rg.Group("/")
	instructor.Use(middleware.RoleMiddleware(model.Instructor))
	{
		// 课程管理
		instructor.POST("/courses", c.course.Create)
		instructor.PUT("/courses/:courseId", c.course.Update)
		instructor.PATCH("/courses/:courseId/status", c.course.UpdateStatus)
		instructor.DELETE("/courses/:courseId", c.course.Delete)
		instructor.POST("/courses/:courseId/cover", c.course.UploadCover)
		instructor.GET("/courses/:courseId/enrollments", c.enrollment.ListByCourse)

		// 课程统计
		instructor.GET("/courses/:courseId/analytics", c.course.GetAnalytics)
		instructor.POST("/courses/:courseId/analytics/recalculate", c.course.RecalculateAnalytics)

		// 内容编排
		instructor.POST("/courses/:courseId/modules", c.module.Create)
		instructor.PUT("/modules/:moduleId", c.module.Update)
		instructor.DELETE("/modules/:moduleId", c.module.Delete)
		instructor.POST("/modules/:moduleId/lessons", c.lesson.Create)
		instructor.PUT("/lessons/:id", c.lesson.Update)
		instructor.DELETE("/lessons/:id", c.lesson.Delete)
		instructor.POST("/lessons/:id/video", c.lesson.UploadVideo)

		// 测验创作
		instructor.POST("/courses/:courseId/quizzes", c.quiz.Create)
		instructor.PUT("/quizzes/:quizId", c.quiz.Update)
		instructor.PATCH("/quizzes/:quizId/publish", c.quiz.Publish)
		instructor.DELETE("/quizzes/:quizId", c.quiz.Delete)
		instructor.POST("/quizzes/:quizId/questions", c.quiz.AddQuestion)
		instructor.PUT("/questions/:id", c.quiz.UpdateQuestion)
		instructor.DELETE("/questions/:id", c.quiz.DeleteQuestion)

		// 批改与成绩
		instructor.GET("/assignments/:assignmentId/submissions", c.submission.ListByAssignment)
		instructor.GET("/courses/:courseId/submissions", c.submission.ListByCourse)
		instructor.POST("/submissions/:id/grade", c.submission.Grade)
		instructor.POST("/responses/:id/grade", c.attempt.GradeResponse)
		instructor.POST("/courses/:courseId/grades", c.grade.Create)
		instructor.PATCH("/grades/:id/publish", c.grade.Publish)
	}
}
