package controller

import (
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
	CourseService     *service.CourseService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService, courseService *service.CourseService) *EnrollmentController {
	return &EnrollmentController{
		EnrollmentService: enrollmentService,
		CourseService:     courseService,
	}
}

// Enroll godoc
// @Summary 报名课程
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response "课程未开放报名"
// @Failure 409 {object} util.Response "已报名"
// @Router /api/courses/{courseId}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Enroll(claims.UserID, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// ListMine godoc
// @Summary 我的选课列表
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.EnrollmentService.ListByStudent(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// GetMine godoc
// @Summary 我在某课程的选课记录
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId}/enrollment [get]
func (c *EnrollmentController) GetMine(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Get(claims.UserID, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// ListByCourse godoc
// @Summary 课程的全部选课记录（教学端）
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/courses/{courseId}/enrollments [get]
func (c *EnrollmentController) ListByCourse(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	enrollments, err := c.EnrollmentService.ListByCourse(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

type ModuleProgressRequest struct {
	ModuleID             uint    `json:"moduleId" binding:"required"`
	CompletionPercentage float64 `json:"completionPercentage" binding:"min=0,max=100"`
}

// UpdateProgress godoc
// @Summary 上报模块学习进度
// @Description 总进度重算为各模块完成度的平均值，全部完成后选课状态流转为 completed
// @Tags 选课
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body ModuleProgressRequest true "模块进度"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/courses/{courseId}/enrollment/progress [put]
func (c *EnrollmentController) UpdateProgress(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	var req ModuleProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	enrollment, err := c.EnrollmentService.UpdateModuleProgress(claims.UserID, courseID, req.ModuleID, req.CompletionPercentage)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// Drop godoc
// @Summary 退课
// @Tags 选课
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/courses/{courseId}/enrollment [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	enrollment, err := c.EnrollmentService.Drop(claims.UserID, courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}
