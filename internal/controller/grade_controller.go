package controller

import (
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradeController struct {
	GradeService  *service.GradeService
	CourseService *service.CourseService
}

func NewGradeController(gradeService *service.GradeService, courseService *service.CourseService) *GradeController {
	return &GradeController{
		GradeService:  gradeService,
		CourseService: courseService,
	}
}

func (c *GradeController) manageable(ctx *gin.Context, courseID uint) bool {
	course, err := c.CourseService.GetByID(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return canManage(ctx, course.InstructorID)
}

// Create godoc
// @Summary 录入成绩
// @Description 支持 quiz/assignment/exam/project/participation 五类评分项
// @Tags 成绩
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body service.CreateGradeRequest true "成绩信息"
// @Success 201 {object} util.Response{data=model.Grade}
// @Router /api/courses/{courseId}/grades [post]
func (c *GradeController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	if !c.manageable(ctx, courseID) {
		return
	}

	var req service.CreateGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	grade, err := c.GradeService.Create(courseID, claims.UserID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, grade)
}

// Publish godoc
// @Summary 发布/撤回成绩
// @Description 发布后学生可见并计入课程统计
// @Tags 成绩
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "成绩ID"
// @Param   body body PublishRequest true "发布状态"
// @Success 200 {object} util.Response{data=model.Grade}
// @Router /api/grades/{id}/publish [patch]
func (c *GradeController) Publish(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	grade, err := c.GradeService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, grade.CourseID) {
		return
	}

	var req PublishRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.GradeService.Publish(id, *req.Published)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// MyGrades godoc
// @Summary 我在某课程的已发布成绩
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Grade}
// @Router /api/courses/{courseId}/grades/mine [get]
func (c *GradeController) MyGrades(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	grades, err := c.GradeService.StudentGrades(courseID, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, grades)
}

// CourseGrade godoc
// @Summary 我的课程总评
// @Description 返回简单平均与按 weight 加权的总评
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseGradeSummary}
// @Router /api/courses/{courseId}/grades/summary [get]
func (c *GradeController) CourseGrade(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}

	summary, err := c.GradeService.CourseGrade(courseID, claims.UserID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, summary)
}

// Get godoc
// @Summary 成绩详情（含评分项解析）
// @Tags 成绩
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "成绩ID"
// @Success 200 {object} util.Response{data=object}
// @Router /api/grades/{id} [get]
func (c *GradeController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	grade, err := c.GradeService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	// 学生只能看自己的已发布成绩
	if grade.StudentID != claims.UserID {
		if !c.manageable(ctx, grade.CourseID) {
			return
		}
	} else if !grade.IsPublished {
		util.Forbidden(ctx)
		return
	}

	item, err := c.GradeService.ResolveItem(grade)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"grade": grade,
		"item":  item,
	})
}
