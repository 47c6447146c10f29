package controller

import (
	"learnify_backend/internal/service"
	"learnify_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ContentService *service.ContentService
	CourseService  *service.CourseService
}

func NewModuleController(contentService *service.ContentService, courseService *service.CourseService) *ModuleController {
	return &ModuleController{
		ContentService: contentService,
		CourseService:  courseService,
	}
}

// 校验当前用户对模块所属课程的管理权限
func (c *ModuleController) manageable(ctx *gin.Context, courseID uint) bool {
	course, err := c.CourseService.GetByID(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return false
	}
	return canManage(ctx, course.InstructorID)
}

// List godoc
// @Summary 课程模块列表（按 order 排序）
// @Tags 模块
// @Produce  json
// @Param   courseId path int true "课程ID"
// @Success 200 {object} util.Response{data=[]model.Module}
// @Router /api/courses/{courseId}/modules [get]
func (c *ModuleController) List(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	modules, err := c.ContentService.ListModules(courseID)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, modules)
}

// Create godoc
// @Summary 创建模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   courseId path int true "课程ID"
// @Param   body body service.ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.Module}
// @Router /api/courses/{courseId}/modules [post]
func (c *ModuleController) Create(ctx *gin.Context) {
	courseID, ok := pathID(ctx, "courseId")
	if !ok {
		return
	}
	if !c.manageable(ctx, courseID) {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	module, err := c.ContentService.CreateModule(courseID, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Created(ctx, module)
}

// Update godoc
// @Summary 更新模块
// @Tags 模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块ID"
// @Param   body body service.ModuleRequest true "更新内容"
// @Success 200 {object} util.Response{data=model.Module}
// @Router /api/modules/{moduleId} [put]
func (c *ModuleController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}
	module, err := c.ContentService.GetModule(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, module.CourseID) {
		return
	}

	var req service.ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	updated, err := c.ContentService.UpdateModule(id, req)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, updated)
}

// Delete godoc
// @Summary 删除模块
// @Tags 模块
// @Produce  json
// @Security BearerAuth
// @Param   moduleId path int true "模块ID"
// @Success 200 {object} util.Response
// @Router /api/modules/{moduleId} [delete]
func (c *ModuleController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "moduleId")
	if !ok {
		return
	}
	module, err := c.ContentService.GetModule(id)
	if err != nil {
		handleServiceError(ctx, err)
		return
	}
	if !c.manageable(ctx, module.CourseID) {
		return
	}

	if err := c.ContentService.DeleteModule(id); err != nil {
		handleServiceError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
