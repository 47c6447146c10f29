package controller

import (
	"os"
	"path/filepath"

	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type LessonController struct {
	ContentService *service.ContentService
	CourseService  *service.CourseService
}

func NewLessonController(contentService *service.ContentService, courseService *service.CourseService) *LessonController {
	return &LessonController{
		ContentService: contentService,
		CourseService:  courseService,
	}
}

func (c *LessonController) manageableByModule(ctx *gin.Context, moduleID uint) bool {
	module, err := c.ContentService.GetModule(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	course, err := c.CourseService.GetByID(module.CourseID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return canManage(ctx, course.InstructorID)
}

// List godoc
// @Summary 模块课时列表（按 order 排序）
// @Tags 课时
// @Produce  json
// @Param   moduleId path int true "模块ID"
// @Success 200 {object} util.Response{data=[]model.Lesson}
// @Router /api/modules/{moduleId}/lessons [get]
func (c *LessonController) List(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}
	lessons, err := c.ContentService.ListLessons(moduleID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// Get godoc
// @Summary 课时详情
// @Tags 课时
// @Produce  json
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 404 {object} util.Response
// @Router /api/lessons/{id} [get]
func (c *LessonController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.ContentService.GetLesson(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// Create godoc
// @Summary 创建课时
// @Description 按类型校验条件字段：pdf 需 fileUrl，quiz 需 quizId，assignment 需 dueDate
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块ID"
// @Param   body body service.LessonRequest true "课时信息"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "条件字段缺失"
// @Router /api/modules/{moduleId}/lessons [post]
func (c *LessonController) Create(ctx *gin.Context) {
	moduleID, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}
	if !c.manageableByModule(ctx, moduleID) {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	lesson, err := c.ContentService.CreateLesson(moduleID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// Update godoc
// @Summary 更新课时
// @Tags 课时
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   body body service.LessonRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/lessons/{id} [put]
func (c *LessonController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.ContentService.GetLesson(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageableByModule(ctx, lesson.ModuleID) {
		return
	}

	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.ContentService.UpdateLesson(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// Delete godoc
// @Summary 删除课时
// @Tags 课时
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Success 200 {object} util.Response
// @Router /api/lessons/{id} [delete]
func (c *LessonController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.ContentService.GetLesson(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageableByModule(ctx, lesson.ModuleID) {
		return
	}

	if err := c.ContentService.DeleteLesson(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// UploadVideo godoc
// @Summary 上传课时视频
// @Description 先落盘到临时文件，用 ffprobe 探测时长后再转存
// @Tags 课时
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "课时ID"
// @Param   file formData file true "视频文件"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Failure 400 {object} util.Response "视频格式不支持"
// @Router /api/lessons/{id}/video [post]
func (c *LessonController) UploadVideo(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.ContentService.GetLesson(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageableByModule(ctx, lesson.ModuleID) {
		return
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	tmpPath := filepath.Join(os.TempDir(), fileHeader.Filename)
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	contentType := fileHeader.Header.Get("Content-Type")
	updated, err := c.ContentService.UploadLessonVideo(ctx.Request.Context(), id, tmpPath, fileHeader.Filename, contentType)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}
