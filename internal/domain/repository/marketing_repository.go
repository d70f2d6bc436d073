// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// MarketingRepository 营销素材仓储接口
type MarketingRepository interface {
	// Get 获取项目的营销素材集合，无任何记录时返回空集合（所有槽位为 nil）
	Get(ctx context.Context, projectID string) (*entity.MarketingBundle, error)

	// SetSlot 写入单个槽位，空字符串表示清空而非删除
	SetSlot(ctx context.Context, projectID string, slot entity.MarketingSlot, value string) error

	// SetKeywords 整体替换项目关键词列表
	SetKeywords(ctx context.Context, projectID string, keywords []string) error
}
