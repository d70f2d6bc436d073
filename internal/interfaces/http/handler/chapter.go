package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/content"
	"bookforge-api/internal/application/generation"
	"bookforge-api/internal/interfaces/http/dto"
)

// ChapterHandler 章节处理器
type ChapterHandler struct {
	genSvc     *generation.Service
	contentSvc *content.Service
}

// NewChapterHandler 创建章节处理器
func NewChapterHandler(genSvc *generation.Service, contentSvc *content.Service) *ChapterHandler {
	return &ChapterHandler{
		genSvc:     genSvc,
		contentSvc: contentSvc,
	}
}

// ListChapters 获取章节列表
// @Summary 获取章节列表
// @Description 获取项目全部章节摘要，按序号升序
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[[]dto.ChapterSummaryResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters [get]
func (h *ChapterHandler) ListChapters(c *gin.Context) {
	ctx := c.Request.Context()

	chapters, err := h.contentSvc.ListChapters(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to list chapters")
		return
	}

	dto.Success(c, dto.ToChapterListResponse(chapters))
}

// GetChapter 获取章节详情
// @Summary 获取章节详情
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Param index path int true "章节序号"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/{index} [get]
func (h *ChapterHandler) GetChapter(c *gin.Context) {
	ctx := c.Request.Context()

	index := dto.BindChapterIndex(c)
	if index == 0 {
		dto.BadRequest(c, "chapter index must be a positive integer")
		return
	}

	chapter, err := h.contentSvc.GetChapter(ctx, dto.BindProjectID(c), index)
	if err != nil {
		respondError(c, err, "failed to get chapter")
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// GenerateChapter 生成章节内容
// @Summary 生成章节内容
// @Description 生成目标章节并写入，重复生成会覆盖内容并将版本加一
// @Tags Chapters
// @Produce json
// @Param pid path string true "项目 ID"
// @Param index path int true "章节序号"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 429 {object} dto.ErrorResponse
// @Failure 504 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/{index}/generate [post]
func (h *ChapterHandler) GenerateChapter(c *gin.Context) {
	ctx := c.Request.Context()

	index := dto.BindChapterIndex(c)
	if index == 0 {
		dto.BadRequest(c, "chapter index must be a positive integer")
		return
	}

	chapter, err := h.genSvc.GenerateChapter(ctx, dto.BindProjectID(c), index)
	if err != nil {
		respondError(c, err, "failed to generate chapter")
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}

// SaveChapter 人工保存章节内容
// @Summary 保存章节内容
// @Description 人工编辑保存，版本号与生成共用同一计数
// @Tags Chapters
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param index path int true "章节序号"
// @Param body body dto.SaveChapterRequest true "章节内容"
// @Success 200 {object} dto.Response[dto.ChapterResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/chapters/{index} [put]
func (h *ChapterHandler) SaveChapter(c *gin.Context) {
	ctx := c.Request.Context()

	index := dto.BindChapterIndex(c)
	if index == 0 {
		dto.BadRequest(c, "chapter index must be a positive integer")
		return
	}

	var req dto.SaveChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		dto.BadRequest(c, "invalid request body: "+err.Error())
		return
	}

	chapter, err := h.contentSvc.SaveChapter(ctx, dto.BindProjectID(c), index, req.Content)
	if err != nil {
		respondError(c, err, "failed to save chapter")
		return
	}

	dto.Success(c, dto.ToChapterResponse(chapter))
}
