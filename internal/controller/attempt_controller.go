package controller

import (
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	GradingService *service.GradingService
	AttemptRepo    *repository.QuizAttemptRepository
}

func NewAttemptController(gradingService *service.GradingService, attemptRepo *repository.QuizAttemptRepository) *AttemptController {
	return &AttemptController{
		GradingService: gradingService,
		AttemptRepo:    attemptRepo,
	}
}

// Start godoc
// @Summary 开始答题
// @Description 已发布测验且未达次数上限时创建一次新答题
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Success 201 {object} util.Response{data=model.QuizAttempt}
// @Failure 403 {object} util.Response "测验未发布或已达次数上限"
// @Router /api/quizzes/{quizId}/attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}

	attempt, err := c.GradingService.StartAttempt(quizID, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, attempt)
}

// ListMine godoc
// @Summary 我在某测验下的答题记录
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   quizId path int true "测验ID"
// @Success 200 {object} util.Response{data=[]model.QuizAttempt}
// @Router /api/quizzes/{quizId}/attempts [get]
func (c *AttemptController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	quizID, ok := pathID(ctx, "quizId")
	if !ok {
		return
	}

	attempts, err := c.AttemptRepo.FindByQuizAndStudent(quizID, claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// Get godoc
// @Summary 答题详情（含作答）
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "答题ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempt, err := c.AttemptRepo.FindByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	// 学生只能看自己的答题
	if attempt.StudentID != claims.UserID && claims.Role == model.Student {
		util.Forbidden(ctx)
		return
	}

	responses, err := c.AttemptRepo.FindResponsesByAttempt(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"attempt":   attempt,
		"responses": responses,
	})
}

// SubmitResponse godoc
// @Summary 提交单题作答
// @Description 选择类题目立即自动判分，文本类题目留待人工评分；重复提交按更新处理
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "答题ID"
// @Param   questionId path int true "题目ID"
// @Param   body body service.ResponseInput true "作答内容"
// @Success 200 {object} util.Response{data=model.QuizResponse}
// @Failure 400 {object} util.Response "作答内容与题型不匹配"
// @Router /api/attempts/{id}/responses/{questionId} [put]
func (c *AttemptController) SubmitResponse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "questionId")
	if !ok {
		return
	}

	attempt, err := c.AttemptRepo.FindByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if attempt.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	var input service.ResponseInput
	if err := ctx.ShouldBindJSON(&input); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.GradingService.GradeResponse(id, questionID, input)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}

// Submit godoc
// @Summary 交卷计分
// @Description 汇总得分并完成答题；重复调用只更新分数，不改计时
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "答题ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempt, err := c.AttemptRepo.FindByID(id)
	if err != nil {
		util.NotFound(ctx)
		return
	}
	if attempt.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}

	score, err := c.GradingService.ScoreAttempt(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}

	attempt, err = c.AttemptRepo.FindByID(id)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"score":   score,
		"attempt": attempt,
	})
}

// Abandon godoc
// @Summary 放弃答题
// @Tags 答题
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "答题ID"
// @Success 200 {object} util.Response{data=model.QuizAttempt}
// @Router /api/attempts/{id}/abandon [post]
func (c *AttemptController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	attempt, err := c.GradingService.AbandonAttempt(id, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, attempt)
}

type GradeResponseRequest struct {
	Points   float64 `json:"points" binding:"min=0"`
	Feedback string  `json:"feedback"`
}

// GradeResponse godoc
// @Summary 人工评分文本作答
// @Tags 答题
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作答ID"
// @Param   body body GradeResponseRequest true "评分"
// @Success 200 {object} util.Response{data=model.QuizResponse}
// @Failure 400 {object} util.Response "分值超出范围"
// @Router /api/responses/{id}/grade [post]
func (c *AttemptController) GradeResponse(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req GradeResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	resp, err := c.GradingService.GradeTextResponse(id, req.Points, req.Feedback, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, resp)
}
