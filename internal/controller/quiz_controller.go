package controller

import (
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService   *service.QuizService
	CourseService *service.CourseService
}

func NewQuizController(quizService *service.QuizService, courseService *service.CourseService) *QuizController {
	return &QuizController{
		QuizService:   quizService,
		CourseService: courseService,
	}
}

func (c *QuizController) manageable(ctx *gin.Context, courseID uint) bool {
	course, err := c.CourseService.GetByID(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return canManage(ctx, course.InstructorID)
}

// ListByCourse godoc
// @Summary 课程测验列表
// @Tags 测验
// @Produce  json
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Quiz}
// @Router /api/courses/{courseId}/quizzes [get]
func (c *QuizController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	quizzes, err := c.QuizService.ListByCourse(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// Get godoc
// @Summary 测验详情（含题目与选项，按 order 排序）
// @Tags 测验
// @Produce  json
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Failure 404 {object} util.Response
// @Router /api/quizzes/{quizId} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuizWithQuestions(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// Create godoc
// @Summary 创建测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body service.QuizRequest true "测验信息"
// @Success 201 {object} util.Response{data=model.Quiz}
// @Router /api/courses/{courseId}/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	if !c.manageable(ctx, courseID) {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.QuizService.CreateQuiz(courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// Update godoc
// @Summary 更新测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Param   body body service.QuizRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{quizId} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, quiz.CourseID) {
		return
	}

	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.UpdateQuiz(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// Publish godoc
// @Summary 发布/下线测验
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Param   body body PublishRequest true "发布状态"
// @Success 200 {object} util.Response{data=model.Quiz}
// @Router /api/quizzes/{quizId}/publish [patch]
func (c *QuizController) Publish(ctx *gin.Context) {
	id, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, quiz.CourseID) {
		return
	}

	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.QuizService.PublishQuiz(id, *req.Published)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// Delete godoc
// @Summary 删除测验
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{quizId} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, quiz.CourseID) {
		return
	}

	if err := c.QuizService.DeleteQuiz(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// AddQuestion godoc
// @Summary 添加题目
// @Description 题目保存后自动重算测验总分
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Param   body body service.QuestionRequest true "题目信息"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 400 {object} util.Response "题型校验失败"
// @Router /api/quizzes/{quizId}/questions [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetQuiz(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, quiz.CourseID) {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.AddQuestion(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary 更新题目
// @Tags 测验
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Param   body body service.QuestionRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/questions/{id} [put]
func (c *QuizController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.QuizService.UpdateQuestion(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary 删除题目
// @Tags 测验
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response
// @Router /api/questions/{id} [delete]
func (c *QuizController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuizService.DeleteQuestion(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
