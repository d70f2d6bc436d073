// Package project 实现书籍项目管理
package project

import (
	"context"
	"encoding/json"
	"time"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/infrastructure/persistence/redis"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// UpdateInput 项目部分更新输入，nil 字段保持不变
type UpdateInput struct {
	Title          *string `json:"title,omitempty"`
	Topic          *string `json:"topic,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
	Purpose        *string `json:"purpose,omitempty"`
	StyleSample    *string `json:"style_sample,omitempty"`
}

// Service 项目服务
type Service struct {
	repo     repository.ProjectRepository
	cache    *redis.Cache
	cacheTTL time.Duration
}

// NewService 创建项目服务
func NewService(repo repository.ProjectRepository, cache *redis.Cache, cacheTTL time.Duration) *Service {
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Create 创建项目
// title、topic、target_audience 缺一不可
func (s *Service) Create(ctx context.Context, title, topic, targetAudience, purpose string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "project.Service.Create")
	defer span.End()

	p := entity.NewProject(title, topic, targetAudience, purpose)
	if !p.Validate() {
		return nil, apperrors.ErrValidationFailed.WithDetail("title, topic and target_audience are required")
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}

	logger.Info(ctx, "project created", "project_id", p.ID, "title", p.Title)
	return p, nil
}

// Get 获取单个项目
func (s *Service) Get(ctx context.Context, id string) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "project.Service.Get")
	defer span.End()

	if s.cache == nil {
		return s.load(ctx, id)
	}

	data, err := s.cache.GetOrLoad(ctx, redis.ProjectKey(id), s.cacheTTL, func() (interface{}, error) {
		return s.load(ctx, id)
	})
	if err != nil {
		return nil, err
	}

	var p *entity.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, apperrors.ErrInternalError.WithError(err)
	}
	if p == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

// List 获取项目列表，按更新时间倒序
func (s *Service) List(ctx context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	ctx, span := tracer.Start(ctx, "project.Service.List")
	defer span.End()

	result, err := s.repo.List(ctx, pagination)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return result, nil
}

// Update 部分更新项目字段
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (*entity.Project, error) {
	ctx, span := tracer.Start(ctx, "project.Service.Update")
	defer span.End()

	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		p.Title = *input.Title
	}
	if input.Topic != nil {
		p.Topic = *input.Topic
	}
	if input.TargetAudience != nil {
		p.TargetAudience = *input.TargetAudience
	}
	if input.Purpose != nil {
		p.Purpose = *input.Purpose
	}
	if input.StyleSample != nil {
		p.StyleSample = *input.StyleSample
	}

	if !p.Validate() {
		return nil, apperrors.ErrValidationFailed.WithDetail("title, topic and target_audience cannot be cleared")
	}

	p.Touch()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	s.invalidate(ctx, id)

	return p, nil
}

// Delete 删除项目及其全部子资源
func (s *Service) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "project.Service.Delete")
	defer span.End()

	if _, err := s.load(ctx, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	s.invalidate(ctx, id)

	logger.Info(ctx, "project deleted", "project_id", id)
	return nil
}

// load 直接从仓储加载项目
func (s *Service) load(ctx context.Context, id string) (*entity.Project, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if p == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return p, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProject(ctx, id); err != nil {
		logger.Warn(ctx, "failed to invalidate project cache", "project_id", id, "error", err.Error())
	}
}
