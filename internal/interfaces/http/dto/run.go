package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// StartRunRequest 启动批量运行请求
type StartRunRequest struct {
	// Resume 为 true 时恢复中断的运行，只补尚无内容的章节
	Resume bool `json:"resume,omitempty"`
}

// BulkJobResponse 批量任务响应
type BulkJobResponse struct {
	ChapterIndex int        `json:"chapter_index"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// BulkRunResponse 批量运行响应
type BulkRunResponse struct {
	ID              string            `json:"id"`
	ProjectID       string            `json:"project_id"`
	Status          string            `json:"status"`
	Completed       int               `json:"completed"`
	Total           int               `json:"total"`
	CurrentIndex    *int              `json:"current_index,omitempty"`
	CancelRequested bool              `json:"cancel_requested"`
	FailedIndices   []int             `json:"failed_indices,omitempty"`
	Jobs            []BulkJobResponse `json:"jobs,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	StartedAt       *time.Time        `json:"started_at,omitempty"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

// ToBulkRunResponse 实体转响应
func ToBulkRunResponse(run *entity.BulkRun) *BulkRunResponse {
	resp := &BulkRunResponse{
		ID:              run.ID,
		ProjectID:       run.ProjectID,
		Status:          string(run.Status),
		Completed:       run.Completed,
		Total:           run.Total,
		CurrentIndex:    run.CurrentIndex,
		CancelRequested: run.CancelRequested,
		FailedIndices:   run.FailedIndices(),
		CreatedAt:       run.CreatedAt,
		StartedAt:       run.StartedAt,
		CompletedAt:     run.CompletedAt,
	}
	for _, job := range run.Jobs {
		resp.Jobs = append(resp.Jobs, BulkJobResponse{
			ChapterIndex: job.ChapterIndex,
			Status:       string(job.Status),
			ErrorMessage: job.ErrorMessage,
			StartedAt:    job.StartedAt,
			CompletedAt:  job.CompletedAt,
		})
	}
	return resp
}
