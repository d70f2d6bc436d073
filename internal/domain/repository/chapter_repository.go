// Package repository 定义数据访问层接口
package repository

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// ChapterRepository 章节仓储接口
type ChapterRepository interface {
	// SaveContent 写入章节内容
	// 首次写入创建记录（版本为 1），再次写入在同一条 UPDATE 中
	// 将 generation_version 恰好加 1，并发写同一章节按行锁串行化
	SaveContent(ctx context.Context, chapter *entity.Chapter) error

	// GetByIndex 按序号获取章节，不存在时返回 nil
	GetByIndex(ctx context.Context, projectID string, index int) (*entity.Chapter, error)

	// ListByProject 获取项目全部章节，按序号升序
	ListByProject(ctx context.Context, projectID string) ([]*entity.Chapter, error)

	// ContentIndices 返回已有非空内容的章节序号集合
	ContentIndices(ctx context.Context, projectID string) (map[int]struct{}, error)
}
