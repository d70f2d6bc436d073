// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"bookforge-api/internal/domain/entity"
)

// ChapterRepository 章节仓储实现
type ChapterRepository struct {
	client *Client
}

// NewChapterRepository 创建章节仓储
func NewChapterRepository(client *Client) *ChapterRepository {
	return &ChapterRepository{client: client}
}

// SaveContent 写入章节内容
// 首次写入创建记录（版本为 1）；已有记录时在同一条 UPDATE 中把
// generation_version 恰好加 1，同一章节的并发写入由行锁串行化
func (r *ChapterRepository) SaveContent(ctx context.Context, chapter *entity.Chapter) error {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.SaveContent")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO chapters (id, project_id, chapter_index, title, content, generation_version, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, 1, NOW(), NOW())
		ON CONFLICT (project_id, chapter_index) DO UPDATE SET
			title = EXCLUDED.title,
			content = EXCLUDED.content,
			generation_version = chapters.generation_version + 1,
			updated_at = NOW()
		RETURNING id, generation_version, created_at, updated_at
	`

	err := q.QueryRowContext(ctx, query,
		chapter.ProjectID, chapter.Index, chapter.Title, chapter.Content,
	).Scan(&chapter.ID, &chapter.GenerationVersion, &chapter.CreatedAt, &chapter.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save chapter content: %w", err)
	}

	return nil
}

// GetByIndex 按序号获取章节
func (r *ChapterRepository) GetByIndex(ctx context.Context, projectID string, index int) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.GetByIndex")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, chapter_index, title, content, generation_version, created_at, updated_at
		FROM chapters
		WHERE project_id = $1 AND chapter_index = $2
	`

	var chapter entity.Chapter
	err := q.QueryRowContext(ctx, query, projectID, index).Scan(
		&chapter.ID, &chapter.ProjectID, &chapter.Index, &chapter.Title,
		&chapter.Content, &chapter.GenerationVersion, &chapter.CreatedAt, &chapter.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get chapter: %w", err)
	}

	return &chapter, nil
}

// ListByProject 获取项目全部章节，按序号升序
func (r *ChapterRepository) ListByProject(ctx context.Context, projectID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ListByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, chapter_index, title, content, generation_version, created_at, updated_at
		FROM chapters
		WHERE project_id = $1
		ORDER BY chapter_index ASC
	`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to list chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*entity.Chapter
	for rows.Next() {
		var chapter entity.Chapter
		if err := rows.Scan(
			&chapter.ID, &chapter.ProjectID, &chapter.Index, &chapter.Title,
			&chapter.Content, &chapter.GenerationVersion, &chapter.CreatedAt, &chapter.UpdatedAt,
		); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan chapter: %w", err)
		}
		chapters = append(chapters, &chapter)
	}

	return chapters, nil
}

// ContentIndices 返回已有非空内容的章节序号集合
func (r *ChapterRepository) ContentIndices(ctx context.Context, projectID string) (map[int]struct{}, error) {
	ctx, span := tracer.Start(ctx, "postgres.ChapterRepository.ContentIndices")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT chapter_index
		FROM chapters
		WHERE project_id = $1 AND btrim(content) <> ''
	`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to query chapter indices: %w", err)
	}
	defer rows.Close()

	indices := make(map[int]struct{})
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan chapter index: %w", err)
		}
		indices[idx] = struct{}{}
	}

	return indices, nil
}
