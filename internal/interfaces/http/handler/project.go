package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/project"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/interfaces/http/dto"
)

// ProjectHandler 项目处理器
type ProjectHandler struct {
	svc *project.Service
}

// NewProjectHandler 创建项目处理器
func NewProjectHandler(svc *project.Service) *ProjectHandler {
	return &ProjectHandler{svc: svc}
}

// ListProjects 获取项目列表
// @Summary 获取项目列表
// @Description 获取项目列表，按更新时间倒序
// @Tags Projects
// @Produce json
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页条数" default(20)
// @Success 200 {object} dto.Response[[]dto.ProjectResponse]
// @Failure 500 {object} dto.ErrorResponse
// @Router /v1/projects [get]
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	ctx := c.Request.Context()
	pageReq := dto.BindPage(c)

	result, err := h.svc.List(ctx, repository.NewPagination(pageReq.Page, pageReq.PageSize))
	if err != nil {
		respondError(c, err, "failed to list projects")
		return
	}

	resp := dto.ToProjectListResponse(result.Items)
	meta := dto.NewPageMeta(pageReq.Page, pageReq.PageSize, int(result.Total))
	dto.SuccessWithPage(c, resp, meta)
}

// CreateProject 创建项目
// @Summary 创建项目
// @Description 创建新的书籍项目，title/topic/target_audience 必填
// @Tags Projects
// @Accept json
// @Produce json
// @Param body body dto.CreateProjectRequest true "项目信息"
// @Success 201 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects [post]
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Create(ctx, req.Title, req.Topic, req.TargetAudience, req.Purpose)
	if err != nil {
		respondError(c, err, "failed to create project")
		return
	}

	dto.Created(c, dto.ToProjectResponse(p))
}

// GetProject 获取项目详情
// @Summary 获取项目详情
// @Tags Projects
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [get]
func (h *ProjectHandler) GetProject(c *gin.Context) {
	ctx := c.Request.Context()

	p, err := h.svc.Get(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get project")
		return
	}

	dto.Success(c, dto.ToProjectResponse(p))
}

// UpdateProject 部分更新项目
// @Summary 更新项目
// @Description 部分更新项目字段，风格训练流程用它保存 style_sample
// @Tags Projects
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.UpdateProjectRequest true "更新内容"
// @Success 200 {object} dto.Response[dto.ProjectResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [put]
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	p, err := h.svc.Update(ctx, dto.BindProjectID(c), project.UpdateInput{
		Title:          req.Title,
		Topic:          req.Topic,
		TargetAudience: req.TargetAudience,
		Purpose:        req.Purpose,
		StyleSample:    req.StyleSample,
	})
	if err != nil {
		respondError(c, err, "failed to update project")
		return
	}

	dto.Success(c, dto.ToProjectResponse(p))
}

// DeleteProject 删除项目
// @Summary 删除项目
// @Description 删除项目及其全部子资源
// @Tags Projects
// @Param pid path string true "项目 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid} [delete]
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Delete(ctx, dto.BindProjectID(c)); err != nil {
		respondError(c, err, "failed to delete project")
		return
	}

	dto.NoContent(c)
}
