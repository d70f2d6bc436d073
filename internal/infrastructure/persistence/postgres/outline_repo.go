// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"fmt"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
)

// OutlineRepository 大纲仓储实现
type OutlineRepository struct {
	client *Client
	tx     repository.Transactor
}

// NewOutlineRepository 创建大纲仓储
func NewOutlineRepository(client *Client, tx repository.Transactor) *OutlineRepository {
	return &OutlineRepository{client: client, tx: tx}
}

// Replace 整体替换项目大纲
// 删除与插入在同一事务内提交，读者不会观察到部分替换的大纲
func (r *OutlineRepository) Replace(ctx context.Context, outline *entity.Outline) error {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.Replace")
	defer span.End()

	err := r.tx.WithTransaction(ctx, func(ctx context.Context) error {
		q := getQuerier(ctx, r.client.db)

		if _, err := q.ExecContext(ctx,
			`DELETE FROM outlines WHERE project_id = $1`, outline.ProjectID,
		); err != nil {
			return fmt.Errorf("failed to clear outline: %w", err)
		}

		insert := `
			INSERT INTO outlines (project_id, chapter_index, title, summary, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
		`
		for _, stub := range outline.Chapters {
			if _, err := q.ExecContext(ctx, insert,
				outline.ProjectID, stub.Index, stub.Title, stub.Summary,
			); err != nil {
				return fmt.Errorf("failed to insert outline chapter %d: %w", stub.Index, err)
			}
		}
		return nil
	})

	if err != nil {
		span.RecordError(err)
		return err
	}

	return nil
}

// GetByProject 获取项目大纲，章节按序号升序
func (r *OutlineRepository) GetByProject(ctx context.Context, projectID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "postgres.OutlineRepository.GetByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT chapter_index, title, summary, updated_at
		FROM outlines
		WHERE project_id = $1
		ORDER BY chapter_index ASC
	`

	rows, err := q.QueryContext(ctx, query, projectID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get outline: %w", err)
	}
	defer rows.Close()

	outline := &entity.Outline{ProjectID: projectID}
	for rows.Next() {
		var stub entity.ChapterStub
		if err := rows.Scan(&stub.Index, &stub.Title, &stub.Summary, &outline.UpdatedAt); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan outline chapter: %w", err)
		}
		outline.Chapters = append(outline.Chapters, stub)
	}

	if len(outline.Chapters) == 0 {
		return nil, nil
	}

	return outline, nil
}
