package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/application/marketing"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/interfaces/http/dto"
)

// MarketingHandler 营销素材处理器
type MarketingHandler struct {
	genSvc *generation.Service
	mktSvc *marketing.Service
}

// NewMarketingHandler 创建营销素材处理器
func NewMarketingHandler(genSvc *generation.Service, mktSvc *marketing.Service) *MarketingHandler {
	return &MarketingHandler{
		genSvc: genSvc,
		mktSvc: mktSvc,
	}
}

// GetBundle 获取营销素材集合
// @Summary 获取营销素材集合
// @Description 四个槽位相互独立，null 表示从未生成，空字符串表示被清空
// @Tags Marketing
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.MarketingBundleResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/marketing [get]
func (h *MarketingHandler) GetBundle(c *gin.Context) {
	ctx := c.Request.Context()

	bundle, err := h.mktSvc.GetBundle(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get marketing bundle")
		return
	}

	dto.Success(c, dto.ToMarketingBundleResponse(bundle))
}

// ExportBundle 导出营销素材 Markdown 文档
// @Summary 导出营销素材
// @Description 将四个槽位组装为 Markdown 并以附件形式返回
// @Tags Marketing
// @Produce text/markdown
// @Param pid path string true "项目 ID"
// @Success 200 {string} string "Markdown 文档"
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/marketing/export [get]
func (h *MarketingHandler) ExportBundle(c *gin.Context) {
	ctx := c.Request.Context()

	doc, err := h.mktSvc.ExportBundle(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to export marketing bundle")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="marketing-content.md"`)
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(doc))
}

// GenerateSlot 生成单个营销槽位
// @Summary 生成营销槽位
// @Tags Marketing
// @Produce json
// @Param pid path string true "项目 ID"
// @Param slot path string true "槽位名" Enums(summary, chapterSummaries, authorBio, marketingBlurb)
// @Success 200 {object} dto.Response[dto.MarketingSlotResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/marketing/{slot}/generate [post]
func (h *MarketingHandler) GenerateSlot(c *gin.Context) {
	ctx := c.Request.Context()

	slot := dto.BindSlot(c)
	if !entity.ValidSlot(slot) {
		dto.BadRequest(c, "unknown marketing slot: "+slot)
		return
	}

	value, err := h.genSvc.GenerateMarketingSlot(ctx, dto.BindProjectID(c), entity.MarketingSlot(slot))
	if err != nil {
		respondError(c, err, "failed to generate marketing slot")
		return
	}

	dto.Success(c, &dto.MarketingSlotResponse{Slot: slot, Content: &value})
}

// EditSlot 人工写入槽位
// @Summary 编辑营销槽位
// @Description 空字符串表示显式清空槽位
// @Tags Marketing
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param slot path string true "槽位名"
// @Param body body dto.EditSlotRequest true "槽位内容"
// @Success 200 {object} dto.Response[dto.MarketingSlotResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/marketing/{slot} [put]
func (h *MarketingHandler) EditSlot(c *gin.Context) {
	ctx := c.Request.Context()

	slot := dto.BindSlot(c)
	if !entity.ValidSlot(slot) {
		dto.BadRequest(c, "unknown marketing slot: "+slot)
		return
	}

	var req dto.EditSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		dto.BadRequest(c, "content field is required")
		return
	}

	if err := h.mktSvc.EditSlot(ctx, dto.BindProjectID(c), entity.MarketingSlot(slot), *req.Content); err != nil {
		respondError(c, err, "failed to edit marketing slot")
		return
	}

	dto.Success(c, &dto.MarketingSlotResponse{Slot: slot, Content: req.Content})
}

// GetKeywords 获取关键词列表
// @Summary 获取关键词列表
// @Tags Marketing
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.KeywordsResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/keywords [get]
func (h *MarketingHandler) GetKeywords(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := dto.BindProjectID(c)

	keywords, err := h.mktSvc.GetKeywords(ctx, projectID)
	if err != nil {
		respondError(c, err, "failed to get keywords")
		return
	}

	dto.Success(c, &dto.KeywordsResponse{ProjectID: projectID, Keywords: keywords})
}

// GenerateKeywords 生成关键词
// @Summary 生成关键词
// @Description 生成结果按集合语义并入既有关键词，保持首次出现顺序
// @Tags Marketing
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.KeywordsResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/keywords/generate [post]
func (h *MarketingHandler) GenerateKeywords(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := dto.BindProjectID(c)

	keywords, err := h.genSvc.GenerateKeywords(ctx, projectID)
	if err != nil {
		respondError(c, err, "failed to generate keywords")
		return
	}

	dto.Success(c, &dto.KeywordsResponse{ProjectID: projectID, Keywords: keywords})
}

// SetKeywords 整体替换关键词
// @Summary 替换关键词列表
// @Tags Marketing
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.SetKeywordsRequest true "关键词列表"
// @Success 200 {object} dto.Response[dto.KeywordsResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/keywords [put]
func (h *MarketingHandler) SetKeywords(c *gin.Context) {
	ctx := c.Request.Context()
	projectID := dto.BindProjectID(c)

	var req dto.SetKeywordsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	keywords, err := h.mktSvc.SetKeywords(ctx, projectID, req.Keywords)
	if err != nil {
		respondError(c, err, "failed to set keywords")
		return
	}

	dto.Success(c, &dto.KeywordsResponse{ProjectID: projectID, Keywords: keywords})
}
