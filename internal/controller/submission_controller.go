package controller

import (
	"learnify_backend/internal/model"
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// Submit godoc
// @Summary 提交作业
// @Description 正文、文件、附件至少提供一种；同一作业只允许一次提交
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path int true "作业课时ID"
// @Param   body body service.SubmitRequest true "提交内容"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response "内容为空或作业不存在"
// @Failure 409 {object} util.Response "已提交过"
// @Router /api/assignments/{assignmentId}/submissions [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	assignmentID, ok := pathID(ctx, "assignmentId")
	if !ok {
		return
	}

	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.SubmissionService.Submit(claims.UserID, assignmentID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, submission)
}

// GetMine godoc
// @Summary 我的某作业提交
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path int true "作业课时ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{assignmentId}/submissions/mine [get]
func (c *SubmissionController) GetMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	assignmentID, ok := pathID(ctx, "assignmentId")
	if !ok {
		return
	}

	submission, err := c.SubmissionService.GetOwn(claims.UserID, assignmentID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// Get godoc
// @Summary 提交详情
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	submission, err := c.SubmissionService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if claims.Role == model.Student && submission.StudentID != claims.UserID {
		util.Forbidden(ctx)
		return
	}
	util.Success(ctx, submission)
}

// ListByAssignment godoc
// @Summary 作业的全部提交（批改用）
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   assignmentId path int true "作业课时ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/assignments/{assignmentId}/submissions [get]
func (c *SubmissionController) ListByAssignment(ctx *gin.Context) {
	assignmentID, ok := pathID(ctx, "assignmentId")
	if !ok {
		return
	}
	submissions, err := c.SubmissionService.ListByAssignment(assignmentID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

// ListByCourse godoc
// @Summary 课程下全部作业提交
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Router /api/courses/{courseId}/submissions [get]
func (c *SubmissionController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	submissions, err := c.SubmissionService.ListByCourse(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submissions)
}

type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// AddComment godoc
// @Summary 给提交添加评论
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Param   body body CommentRequest true "评论内容"
// @Success 200 {object} util.Response{data=model.Submission}
// @Router /api/submissions/{id}/comments [post]
func (c *SubmissionController) AddComment(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req CommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	submission, err := c.SubmissionService.AddComment(id, claims.UserID, req.Text)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, submission)
}

// Grade godoc
// @Summary 批改提交
// @Description 生成成绩记录、回填 gradeId 并把提交置为 graded
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Param   body body service.GradeSubmissionRequest true "评分"
// @Success 201 {object} util.Response{data=model.Grade}
// @Router /api/submissions/{id}/grade [post]
func (c *SubmissionController) Grade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	var req service.GradeSubmissionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.SubmissionService.Grade(id, claims.UserID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, grade)
}
