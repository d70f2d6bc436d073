package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/style"
	"bookforge-api/internal/interfaces/http/dto"
)

// StyleHandler 风格画像处理器
type StyleHandler struct {
	svc *style.Service
}

// NewStyleHandler 创建风格画像处理器
func NewStyleHandler(svc *style.Service) *StyleHandler {
	return &StyleHandler{svc: svc}
}

// SubmitSample 提交写作样本训练风格画像
// @Summary 训练风格画像
// @Description 提交至少 50 个词的写作样本，分析结果整体替换旧画像
// @Tags Style
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.SubmitStyleSampleRequest true "写作样本"
// @Success 200 {object} dto.Response[dto.StyleProfileResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/style [post]
func (h *StyleHandler) SubmitSample(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SubmitStyleSampleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	profile, err := h.svc.SubmitSample(ctx, dto.BindProjectID(c), req.Sample)
	if err != nil {
		respondError(c, err, "failed to analyze style sample")
		return
	}

	dto.Success(c, dto.ToStyleProfileResponse(profile))
}

// GetProfile 获取风格画像
// @Summary 获取风格画像
// @Tags Style
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.StyleProfileResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/style [get]
func (h *StyleHandler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()

	profile, err := h.svc.GetProfile(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get style profile")
		return
	}
	if profile == nil {
		dto.NotFound(c, "style profile not trained yet")
		return
	}

	dto.Success(c, dto.ToStyleProfileResponse(profile))
}

// DeleteProfile 删除风格画像
// @Summary 删除风格画像
// @Tags Style
// @Param pid path string true "项目 ID"
// @Success 204 "No Content"
// @Router /v1/projects/{pid}/style [delete]
func (h *StyleHandler) DeleteProfile(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.DeleteProfile(ctx, dto.BindProjectID(c)); err != nil {
		respondError(c, err, "failed to delete style profile")
		return
	}

	dto.NoContent(c)
}
