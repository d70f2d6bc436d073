// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bookforge-api/internal/domain/entity"
)

// MarketingRepository 营销素材仓储实现
type MarketingRepository struct {
	client *Client
}

// NewMarketingRepository 创建营销素材仓储
func NewMarketingRepository(client *Client) *MarketingRepository {
	return &MarketingRepository{client: client}
}

// slotColumns 槽位到列名的映射，拼接 SQL 前必须经过白名单
var slotColumns = map[entity.MarketingSlot]string{
	entity.SlotSummary:          "summary",
	entity.SlotChapterSummaries: "chapter_summaries",
	entity.SlotAuthorBio:        "author_bio",
	entity.SlotMarketingBlurb:   "marketing_blurb",
}

// Get 获取项目的营销素材集合
// 没有记录时返回空集合，所有槽位为 nil（从未生成）
func (r *MarketingRepository) Get(ctx context.Context, projectID string) (*entity.MarketingBundle, error) {
	ctx, span := tracer.Start(ctx, "postgres.MarketingRepository.Get")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT summary, chapter_summaries, author_bio, marketing_blurb, keywords, updated_at
		FROM marketing_bundles
		WHERE project_id = $1
	`

	bundle := entity.NewMarketingBundle(projectID)
	var summary, chapterSummaries, authorBio, marketingBlurb sql.NullString
	var keywordsJSON []byte

	err := q.QueryRowContext(ctx, query, projectID).Scan(
		&summary, &chapterSummaries, &authorBio, &marketingBlurb, &keywordsJSON, &bundle.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return bundle, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get marketing bundle: %w", err)
	}

	if summary.Valid {
		bundle.Summary = &summary.String
	}
	if chapterSummaries.Valid {
		bundle.ChapterSummaries = &chapterSummaries.String
	}
	if authorBio.Valid {
		bundle.AuthorBio = &authorBio.String
	}
	if marketingBlurb.Valid {
		bundle.MarketingBlurb = &marketingBlurb.String
	}
	if len(keywordsJSON) > 0 {
		if err := json.Unmarshal(keywordsJSON, &bundle.Keywords); err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("failed to decode keywords: %w", err)
		}
	}

	return bundle, nil
}

// SetSlot 写入单个槽位，空字符串表示清空（仍有值），与 NULL（从未生成）不同
func (r *MarketingRepository) SetSlot(ctx context.Context, projectID string, slot entity.MarketingSlot, value string) error {
	ctx, span := tracer.Start(ctx, "postgres.MarketingRepository.SetSlot")
	defer span.End()

	column, ok := slotColumns[slot]
	if !ok {
		return fmt.Errorf("unknown marketing slot: %s", slot)
	}

	q := getQuerier(ctx, r.client.db)

	query := fmt.Sprintf(`
		INSERT INTO marketing_bundles (project_id, %s, keywords, updated_at)
		VALUES ($1, $2, '[]'::jsonb, NOW())
		ON CONFLICT (project_id) DO UPDATE SET
			%s = EXCLUDED.%s,
			updated_at = NOW()
	`, column, column, column)

	if _, err := q.ExecContext(ctx, query, projectID, value); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set marketing slot %s: %w", slot, err)
	}

	return nil
}

// SetKeywords 整体替换项目关键词列表
func (r *MarketingRepository) SetKeywords(ctx context.Context, projectID string, keywords []string) error {
	ctx, span := tracer.Start(ctx, "postgres.MarketingRepository.SetKeywords")
	defer span.End()

	if keywords == nil {
		keywords = []string{}
	}
	keywordsJSON, err := json.Marshal(keywords)
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	q := getQuerier(ctx, r.client.db)

	query := `
		INSERT INTO marketing_bundles (project_id, keywords, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (project_id) DO UPDATE SET
			keywords = EXCLUDED.keywords,
			updated_at = NOW()
	`

	if _, err := q.ExecContext(ctx, query, projectID, keywordsJSON); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to set keywords: %w", err)
	}

	return nil
}
