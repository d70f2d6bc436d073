package handler

import (
	"github.com/gin-gonic/gin"

	"bookforge-api/internal/application/bulk"
	"bookforge-api/internal/interfaces/http/dto"
)

// RunHandler 批量运行处理器
type RunHandler struct {
	svc *bulk.Service
}

// NewRunHandler 创建批量运行处理器
func NewRunHandler(svc *bulk.Service) *RunHandler {
	return &RunHandler{svc: svc}
}

// StartRun 启动批量运行
// @Summary 启动批量补全运行
// @Description 为所有尚无内容的章节创建生成任务并派发给 worker，
// @Description 同一项目同时只允许一个进行中的运行
// @Tags BulkRuns
// @Accept json
// @Produce json
// @Param pid path string true "项目 ID"
// @Param body body dto.StartRunRequest false "运行选项"
// @Success 202 {object} dto.Response[dto.BulkRunResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/bulk-runs [post]
func (h *RunHandler) StartRun(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.StartRunRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			dto.BadRequest(c, "invalid request body: "+err.Error())
			return
		}
	}

	run, err := h.svc.Start(ctx, dto.BindProjectID(c), req.Resume)
	if err != nil {
		respondError(c, err, "failed to start bulk run")
		return
	}

	dto.Accepted(c, dto.ToBulkRunResponse(run))
}

// GetRun 获取运行详情
// @Summary 获取批量运行详情
// @Tags BulkRuns
// @Produce json
// @Param rid path string true "运行 ID"
// @Success 200 {object} dto.Response[dto.BulkRunResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/bulk-runs/{rid} [get]
func (h *RunHandler) GetRun(c *gin.Context) {
	ctx := c.Request.Context()

	run, err := h.svc.Get(ctx, dto.BindRunID(c))
	if err != nil {
		respondError(c, err, "failed to get bulk run")
		return
	}

	dto.Success(c, dto.ToBulkRunResponse(run))
}

// GetActiveRun 获取项目当前进行中的运行
// @Summary 获取进行中的运行
// @Tags BulkRuns
// @Produce json
// @Param pid path string true "项目 ID"
// @Success 200 {object} dto.Response[dto.BulkRunResponse]
// @Failure 404 {object} dto.ErrorResponse
// @Router /v1/projects/{pid}/bulk-runs/active [get]
func (h *RunHandler) GetActiveRun(c *gin.Context) {
	ctx := c.Request.Context()

	run, err := h.svc.GetActive(ctx, dto.BindProjectID(c))
	if err != nil {
		respondError(c, err, "failed to get active bulk run")
		return
	}
	if run == nil {
		dto.NotFound(c, "no active bulk run for project")
		return
	}

	dto.Success(c, dto.ToBulkRunResponse(run))
}

// CancelRun 请求取消运行
// @Summary 取消批量运行
// @Description 取消在任务边界生效，进行中的章节会正常完成或超时
// @Tags BulkRuns
// @Param rid path string true "运行 ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /v1/bulk-runs/{rid} [delete]
func (h *RunHandler) CancelRun(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.svc.Cancel(ctx, dto.BindRunID(c)); err != nil {
		respondError(c, err, "failed to cancel bulk run")
		return
	}

	dto.NoContent(c)
}
