package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/content"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/interfaces/http/dto"
)

// OutlineHandler 大纲处理器
type OutlineHandler struct {
	genSvc     *generation.Service
	contentSvc *content.Service
}

// NewOutlineHandler 创建大纲处理器
func NewOutlineHandler(genSvc *generation.Service, contentSvc *content.Service) *OutlineHandler {
	return &OutlineHandler{
		genSvc:     genSvc,
		contentSvc: contentSvc,
	}
}

// GenerateOutline 生成大纲
// @Summary 生成大纲
// @Description 生成并整体替换项目大纲，失败时保留旧大纲
// @Tags Outline
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.OutlineResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 502 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/outline/generate [post]
func (h *OutlineHandler) GenerateOutline(c *gin.Context) {
	ctx := c.Request.Context()

	outline, err := h.genSvc.GenerateOutline(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to generate outline")
		return
	}

	dto.Success(c, dto.ToOutlineResponse(outline))
}

// ReplaceOutline 人工整体替换大纲
// @Summary 替换大纲
// @Description 整体替换项目大纲，序号必须从 1 开始连续递增
// @Tags Outline
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.ReplaceOutlineRequest true "大纲章节列表"
// @Success 200 {object} dto.Response[dto.OutlineResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/outline [put]
func (h *OutlineHandler) ReplaceOutline(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ReplaceOutlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	outline, err := h.contentSvc.ReplaceOutline(ctx, dto.BindProjectID(c), req.ToChapterStubs())
	if err != nil {
		respondError(c, err, "failed to replace outline")
		return
	}

	dto.Success(c, dto.ToOutlineResponse(outline))
}

// GetOutline 获取大纲
// @Summary 获取大纲
// @Tags Outline
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.OutlineResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/outline [get]
func (h *OutlineHandler) GetOutline(c *gin.Context) {
	ctx := c.Request.Context()

	outline, err := h.contentSvc.GetOutline(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get outline")
		return
	}

	dto.Success(c, dto.ToOutlineResponse(outline))
}
