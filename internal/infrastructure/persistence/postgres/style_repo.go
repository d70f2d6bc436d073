// Package postgres 提供 PostgreSQL Repository 实现
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"bookforge-api/internal/domain/entity"
)

// StyleProfileRepository 风格画像仓储实现
type StyleProfileRepository struct {
	client *Client
}

// NewStyleProfileRepository 创建风格画像仓储
func NewStyleProfileRepository(client *Client) *StyleProfileRepository {
	return &StyleProfileRepository{client: client}
}

// Upsert 写入或替换项目的风格画像
func (r *StyleProfileRepository) Upsert(ctx context.Context, profile *entity.StyleProfile) error {
	ctx, span := tracer.Start(ctx, "postgres.StyleProfileRepository.Upsert")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	features := profile.DistinctiveFeatures
	if features == nil {
		features = []string{}
	}
	featuresJSON, err := json.Marshal(features)
	if err != nil {
		return fmt.Errorf("failed to marshal distinctive features: %w", err)
	}

	query := `
		INSERT INTO style_profiles (id, project_id, tone, sentence_style, voice, distinctive_features, sample_text, example_rewrite, created_at, updated_at)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (project_id) DO UPDATE SET
			tone = EXCLUDED.tone,
			sentence_style = EXCLUDED.sentence_style,
			voice = EXCLUDED.voice,
			distinctive_features = EXCLUDED.distinctive_features,
			sample_text = EXCLUDED.sample_text,
			example_rewrite = EXCLUDED.example_rewrite,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err = q.QueryRowContext(ctx, query,
		profile.ProjectID, profile.Tone, profile.SentenceStyle, profile.Voice,
		featuresJSON, profile.SampleText, profile.ExampleRewrite,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to upsert style profile: %w", err)
	}

	return nil
}

// GetByProject 获取项目的风格画像
func (r *StyleProfileRepository) GetByProject(ctx context.Context, projectID string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "postgres.StyleProfileRepository.GetByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `
		SELECT id, project_id, tone, sentence_style, voice, distinctive_features, sample_text, example_rewrite, created_at, updated_at
		FROM style_profiles
		WHERE project_id = $1
	`

	var profile entity.StyleProfile
	var featuresJSON []byte
	err := q.QueryRowContext(ctx, query, projectID).Scan(
		&profile.ID, &profile.ProjectID, &profile.Tone, &profile.SentenceStyle,
		&profile.Voice, &featuresJSON, &profile.SampleText, &profile.ExampleRewrite,
		&profile.CreatedAt, &profile.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("failed to get style profile: %w", err)
	}

	if len(featuresJSON) > 0 {
		if err := json.Unmarshal(featuresJSON, &profile.DistinctiveFeatures); err != nil {
			return nil, fmt.Errorf("failed to unmarshal distinctive features: %w", err)
		}
	}

	return &profile, nil
}

// DeleteByProject 删除项目的风格画像
func (r *StyleProfileRepository) DeleteByProject(ctx context.Context, projectID string) error {
	ctx, span := tracer.Start(ctx, "postgres.StyleProfileRepository.DeleteByProject")
	defer span.End()

	q := getQuerier(ctx, r.client.db)

	query := `DELETE FROM style_profiles WHERE project_id = $1`
	if _, err := q.ExecContext(ctx, query, projectID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to delete style profile: %w", err)
	}

	return nil
}
