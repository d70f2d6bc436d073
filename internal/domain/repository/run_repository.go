// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// RunRepository 批量运行仓储接口
type RunRepository interface {
	// Create 创建运行及其全部任务（单事务）
	Create(ctx context.Context, run *entity.BulkRun) error

	// GetByID 获取运行（含任务列表，按章节序号升序），不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.BulkRun, error)

	// GetActiveByProject 获取项目当前进行中的运行，没有则返回 nil
	GetActiveByProject(ctx context.Context, projectID string) (*entity.BulkRun, error)

	// UpdateRun 更新运行状态与进度字段
	UpdateRun(ctx context.Context, run *entity.BulkRun) error

	// UpdateJob 更新单个任务状态
	UpdateJob(ctx context.Context, job *entity.BulkJob) error

	// RequestCancel 标记取消请求，运行在下一个任务边界停止
	RequestCancel(ctx context.Context, id string) error

	// IsCancelRequested 查询取消标记
	IsCancelRequested(ctx context.Context, id string) (bool, error)
}
