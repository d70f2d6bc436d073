// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// OutlineRepository 大纲仓储接口
type OutlineRepository interface {
	// Replace 整体替换项目大纲，要么全部生效要么全部不生效
	Replace(ctx context.Context, outline *entity.Outline) error

	// GetByProject 获取项目大纲（章节按序号升序），无大纲时返回 nil
	GetByProject(ctx context.Context, projectID string) (*entity.Outline, error)
}
