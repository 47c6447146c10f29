package controller

import (
	"learnify_backend/internal/model"
	"learnify_backend/internal/repository"
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService    *service.CourseService
	AnalyticsService *service.AnalyticsService
}

func NewCourseController(courseService *service.CourseService, analyticsService *service.AnalyticsService) *CourseController {
	return &CourseController{
		CourseService:    courseService,
		AnalyticsService: analyticsService,
	}
}

// List godoc
// @Summary 课程列表
// @Description 访客只能看到已发布课程，讲师与管理员可按状态筛选
// @Tags 课程
// @Produce  json
// @Param   status query string false "课程状态"
// @Param   search query string false "标题关键字"
// @Param   sort query string false "排序字段"
// @Param   order query string false "asc/desc"
// @Success 200 {object} util.Response{data=[]model.Course}
// @Router /api/courses [get]
func (c *CourseController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	privileged := claims != nil && (claims.Role == model.Instructor || claims.Role == model.Admin)

	filter := repository.CourseFilter{
		Status: model.CourseStatus(ctx.Query("status")),
		Search: ctx.Query("search"),
		Sort:   ctx.Query("sort"),
		Order:  ctx.Query("order"),
	}
	courses, err := c.CourseService.List(filter, privileged)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// Get godoc
// @Summary 课程详情（含模块）
// @Description 未发布课程仅课程归属讲师与管理员可见
// @Tags 课程
// @Produce  json
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/{courseId} [get]
func (c *CourseController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !courseVisible(ctx, course) {
		handleServiceError(ctx, util.ErrCourseNotFound)
		return
	}
	util.Success(ctx, course)
}

// GetBySlug godoc
// @Summary 按 slug 查课程
// @Tags 课程
// @Produce  json
// @Param   slug path string true "课程 slug"
// @Success 200 {object} util.Response{data=model.Course}
// @Failure 404 {object} util.Response
// @Router /api/courses/slug/{slug} [get]
func (c *CourseController) GetBySlug(ctx *gin.Context) {
	course, err := c.CourseService.GetBySlug(ctx.Param("slug"))
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !courseVisible(ctx, course) {
		handleServiceError(ctx, util.ErrCourseNotFound)
		return
	}
	util.Success(ctx, course)
}

// courseVisible 未发布课程对外隐藏，归属讲师与管理员除外
func courseVisible(ctx *gin.Context, course *model.Course) bool {
	if course.Status == model.CoursePublished {
		return true
	}
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		return false
	}
	return claims.UserID == course.InstructorID || claims.Role == model.Admin
}

// Create godoc
// @Summary 创建课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body service.CreateCourseRequest true "课程信息"
// @Success 201 {object} util.Response{data=model.Course}
// @Failure 409 {object} util.Response "同名课程已存在"
// @Router /api/courses [post]
func (c *CourseController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	course, err := c.CourseService.Create(claims.UserID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// Update godoc
// @Summary 更新课程
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body service.UpdateCourseRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseId} [put]
func (c *CourseController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	var req service.UpdateCourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.CourseService.Update(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

type CourseStatusRequest struct {
	Status model.CourseStatus `json:"status" binding:"required"`
}

// UpdateStatus godoc
// @Summary 变更课程状态
// @Tags 课程
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body CourseStatusRequest true "目标状态"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseId}/status [patch]
func (c *CourseController) UpdateStatus(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	var req CourseStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.CourseService.ChangeStatus(id, req.Status)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// Delete godoc
// @Summary 删除课程
// @Description 课程与统计快照在同一事务中删除
// @Tags 课程
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response
// @Router /api/courses/{courseId} [delete]
func (c *CourseController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	if err := c.CourseService.Delete(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadCover godoc
// @Summary 上传课程封面
// @Tags 课程
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   file formData file true "封面图片"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/courses/{courseId}/cover [post]
func (c *CourseController) UploadCover(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	updated, err := c.CourseService.UploadCover(ctx.Request.Context(), id, fileHeader.Filename, file, fileHeader.Size, contentType)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// GetAnalytics godoc
// @Summary 课程统计快照
// @Description 返回当前快照，不触发重算；快照不存在时创建零值
// @Tags 课程统计
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseAnalytics}
// @Router /api/courses/{courseId}/analytics [get]
func (c *CourseController) GetAnalytics(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	analytics, err := c.AnalyticsService.GetOrCreate(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}

// RecalculateAnalytics godoc
// @Summary 重算课程统计
// @Description 全量重算并覆盖保存快照
// @Tags 课程统计
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=model.CourseAnalytics}
// @Router /api/courses/{courseId}/analytics/recalculate [post]
func (c *CourseController) RecalculateAnalytics(ctx *gin.Context) {
	id, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	course, err := c.CourseService.GetByID(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !canManage(ctx, course.InstructorID) {
		return
	}

	analytics, err := c.AnalyticsService.Recalculate(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, analytics)
}
