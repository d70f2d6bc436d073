// Package entity 定义领域实体
package entity

import (
	"time"
)

// RunStatus 批量运行状态
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCancelled RunStatus = "cancelled"
)

// JobStatus 批量任务状态
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
	JobStatusSkipped   JobStatus = "skipped"
)

// IsTerminal 判断任务状态是否为终态
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusSucceeded || s == JobStatusFailed || s == JobStatusSkipped
}

// BulkJob 批量运行中单个章节的生成任务
type BulkJob struct {
	RunID        string     `json:"run_id"`
	ChapterIndex int        `json:"chapter_index"`
	Status       JobStatus  `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// Start 开始执行任务
func (j *BulkJob) Start() {
	now := time.Now()
	j.Status = JobStatusRunning
	j.StartedAt = &now
}

// Succeed 任务成功
func (j *BulkJob) Succeed() {
	now := time.Now()
	j.Status = JobStatusSucceeded
	j.CompletedAt = &now
}

// Fail 任务失败
func (j *BulkJob) Fail(errMsg string) {
	now := time.Now()
	j.Status = JobStatusFailed
	j.ErrorMessage = errMsg
	j.CompletedAt = &now
}

// Skip 任务被跳过（预算耗尽）
func (j *BulkJob) Skip(reason string) {
	now := time.Now()
	j.Status = JobStatusSkipped
	j.ErrorMessage = reason
	j.CompletedAt = &now
}

// BulkRun 批量补全运行
type BulkRun struct {
	ID              string     `json:"id"`
	ProjectID       string     `json:"project_id"`
	Status          RunStatus  `json:"status"`
	Total           int        `json:"total"`
	Completed       int        `json:"completed"`
	CurrentIndex    *int       `json:"current_index,omitempty"`
	Budget          int        `json:"budget,omitempty"`
	CancelRequested bool       `json:"cancel_requested"`
	Jobs            []BulkJob  `json:"jobs,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// NewBulkRun 创建批量运行，indices 为待生成的章节序号（升序）
func NewBulkRun(projectID string, indices []int, budget int) *BulkRun {
	now := time.Now()
	run := &BulkRun{
		ProjectID: projectID,
		Status:    RunStatusPending,
		Total:     len(indices),
		Budget:    budget,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, idx := range indices {
		run.Jobs = append(run.Jobs, BulkJob{
			ChapterIndex: idx,
			Status:       JobStatusPending,
		})
	}
	return run
}

// Start 运行开始
func (r *BulkRun) Start() {
	now := time.Now()
	r.Status = RunStatusRunning
	r.StartedAt = &now
	r.UpdatedAt = now
}

// Finish 根据任务结果收敛运行终态
// 只要有章节成功或被跳过就视为完成（失败章节记入报告）；
// 全部失败或存储错误中止时标记为失败
func (r *BulkRun) Finish(fatal bool) {
	now := time.Now()
	switch {
	case fatal:
		r.Status = RunStatusFailed
	case r.CancelRequested:
		r.Status = RunStatusCancelled
	default:
		r.Status = RunStatusCompleted
	}
	r.CurrentIndex = nil
	r.CompletedAt = &now
	r.UpdatedAt = now
}

// IsActive 判断运行是否仍在进行
func (r *BulkRun) IsActive() bool {
	return r.Status == RunStatusPending || r.Status == RunStatusRunning
}

// FailedIndices 返回失败章节序号列表
func (r *BulkRun) FailedIndices() []int {
	var out []int
	for _, j := range r.Jobs {
		if j.Status == JobStatusFailed {
			out = append(out, j.ChapterIndex)
		}
	}
	return out
}
