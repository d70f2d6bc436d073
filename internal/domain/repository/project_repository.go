// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// ProjectRepository 项目仓储接口
type ProjectRepository interface {
	// Create 创建项目
	Create(ctx context.Context, project *entity.Project) error

	// GetByID 根据 ID 获取项目，不存在时返回 nil
	GetByID(ctx context.Context, id string) (*entity.Project, error)

	// Update 更新项目
	Update(ctx context.Context, project *entity.Project) error

	// Delete 删除项目（级联删除所有子资源）
	Delete(ctx context.Context, id string) error

	// List 获取项目列表，按更新时间倒序
	List(ctx context.Context, pagination Pagination) (*PagedResult[*entity.Project], error)

	// Touch 仅更新项目修改时间
	Touch(ctx context.Context, id string) error
}
