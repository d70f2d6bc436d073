package style

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/persistence/redis"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// Service 风格画像服务
// 样本训练整体替换旧画像，原始样本随画像保存供生成时作少样本上下文
type Service struct {
	projectRepo repository.ProjectRepository
	styleRepo   repository.StyleProfileRepository
	scorer      Scorer
	cache       *redis.Cache
	cacheTTL    time.Duration
}

// NewService 创建风格画像服务
func NewService(
	projectRepo repository.ProjectRepository,
	styleRepo repository.StyleProfileRepository,
	scorer Scorer,
	cache *redis.Cache,
	cacheTTL time.Duration,
) *Service {
	if scorer == nil {
		scorer = NewHeuristicScorer()
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		projectRepo: projectRepo,
		styleRepo:   styleRepo,
		scorer:      scorer,
		cache:       cache,
		cacheTTL:    cacheTTL,
	}
}

// SubmitSample 提交写作样本并训练风格画像
// 样本去除首尾空白后少于 50 个词时校验失败，不产生任何写入
func (s *Service) SubmitSample(ctx context.Context, projectID, sample string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "style.Service.SubmitSample")
	defer span.End()

	sample = strings.TrimSpace(sample)
	if wordCount := len(strings.Fields(sample)); wordCount < entity.MinStyleSampleWords {
		return nil, apperrors.ErrValidationFailed.WithDetail(
			fmt.Sprintf("writing sample has %d words, at least %d required", wordCount, entity.MinStyleSampleWords))
	}

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}

	profile := s.scorer.Score(sample)
	profile.ProjectID = projectID

	if err := s.styleRepo.Upsert(ctx, profile); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	project.StyleSample = sample
	project.Touch()
	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateProject(ctx, projectID); err != nil {
			logger.Warn(ctx, "failed to invalidate project cache", "error", err.Error())
		}
	}

	logger.Info(ctx, "style profile trained",
		"project_id", projectID, "tone", profile.Tone, "voice", profile.Voice)
	return profile, nil
}

// GetProfile 获取项目的风格画像，未训练时返回 nil
func (s *Service) GetProfile(ctx context.Context, projectID string) (*entity.StyleProfile, error) {
	ctx, span := tracer.Start(ctx, "style.Service.GetProfile")
	defer span.End()

	if s.cache == nil {
		profile, err := s.styleRepo.GetByProject(ctx, projectID)
		if err != nil {
			return nil, apperrors.ErrDatabaseError.WithError(err)
		}
		return profile, nil
	}

	data, err := s.cache.GetOrLoad(ctx, redis.StyleProfileKey(projectID), s.cacheTTL, func() (interface{}, error) {
		return s.styleRepo.GetByProject(ctx, projectID)
	})
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	var profile *entity.StyleProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	return profile, nil
}

// DeleteProfile 删除项目的风格画像
func (s *Service) DeleteProfile(ctx context.Context, projectID string) error {
	ctx, span := tracer.Start(ctx, "style.Service.DeleteProfile")
	defer span.End()

	if err := s.styleRepo.DeleteByProject(ctx, projectID); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateProject(ctx, projectID); err != nil {
			logger.Warn(ctx, "failed to invalidate project cache", "error", err.Error())
		}
	}
	return nil
}
