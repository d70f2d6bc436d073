// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// StyleProfileRepository 风格画像仓储接口
// 每个项目最多保留一份画像，新样本训练结果整体替换旧画像
type StyleProfileRepository interface {
	// Upsert 写入或替换项目的风格画像
	Upsert(ctx context.Context, profile *entity.StyleProfile) error

	// GetByProject 获取项目的风格画像，未训练时返回 nil
	GetByProject(ctx context.Context, projectID string) (*entity.StyleProfile, error)

	// DeleteByProject 删除项目的风格画像
	DeleteByProject(ctx context.Context, projectID string) error
}
