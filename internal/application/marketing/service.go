// Package marketing 实现营销素材管理
package marketing

import (
	"context"
	"fmt"
	"strings"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// Service 营销素材服务
// 四个槽位相互独立；nil 表示从未生成，空字符串表示被显式清空
type Service struct {
	projectRepo repository.ProjectRepository
	mktRepo     repository.MarketingRepository
}

// NewService 创建营销素材服务
func NewService(projectRepo repository.ProjectRepository, mktRepo repository.MarketingRepository) *Service {
	return &Service{
		projectRepo: projectRepo,
		mktRepo:     mktRepo,
	}
}

// GetBundle 获取项目的营销素材集合
func (s *Service) GetBundle(ctx context.Context, projectID string) (*entity.MarketingBundle, error) {
	ctx, span := tracer.Start(ctx, "marketing.Service.GetBundle")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	bundle, err := s.mktRepo.Get(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return bundle, nil
}

// EditSlot 人工写入槽位，空字符串表示清空
func (s *Service) EditSlot(ctx context.Context, projectID string, slot entity.MarketingSlot, value string) error {
	ctx, span := tracer.Start(ctx, "marketing.Service.EditSlot")
	defer span.End()

	if !entity.ValidSlot(string(slot)) {
		return apperrors.ErrInvalidParam.WithDetail("unknown marketing slot")
	}
	if err := s.ensureProject(ctx, projectID); err != nil {
		return err
	}

	if err := s.mktRepo.SetSlot(ctx, projectID, slot, value); err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after slot edit", "error", err.Error())
	}
	return nil
}

// GetKeywords 获取项目关键词列表
func (s *Service) GetKeywords(ctx context.Context, projectID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "marketing.Service.GetKeywords")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	bundle, err := s.mktRepo.Get(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if bundle.Keywords == nil {
		return []string{}, nil
	}
	return bundle.Keywords, nil
}

// ExportBundle 将四个槽位组装为 Markdown 文档
// 未生成或被清空的槽位渲染为空段落，章节顺序与页面下载格式一致
func (s *Service) ExportBundle(ctx context.Context, projectID string) (string, error) {
	ctx, span := tracer.Start(ctx, "marketing.Service.ExportBundle")
	defer span.End()

	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return "", apperrors.ErrDatabaseError.WithError(err)
	}
	if project == nil {
		return "", apperrors.ErrProjectNotFound
	}

	bundle, err := s.mktRepo.Get(ctx, projectID)
	if err != nil {
		return "", apperrors.ErrDatabaseError.WithError(err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Marketing Content for %q\n", project.Title)
	writeSection(&b, "Book Summary", bundle.Summary)
	writeSection(&b, "Chapter Summaries", bundle.ChapterSummaries)
	writeSection(&b, "Author Bio", bundle.AuthorBio)
	writeSection(&b, "Marketing Blurb", bundle.MarketingBlurb)
	return b.String(), nil
}

func writeSection(b *strings.Builder, heading string, value *string) {
	content := ""
	if value != nil {
		content = *value
	}
	fmt.Fprintf(b, "\n## %s\n%s\n", heading, content)
}

// SetKeywords 整体替换关键词列表（人工编辑路径）
// 替换仍按集合语义去重并保持首次出现顺序
func (s *Service) SetKeywords(ctx context.Context, projectID string, keywords []string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "marketing.Service.SetKeywords")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	bundle := entity.NewMarketingBundle(projectID)
	bundle.AddKeywords(keywords)

	if err := s.mktRepo.SetKeywords(ctx, projectID, bundle.Keywords); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after keywords edit", "error", err.Error())
	}
	return bundle.Keywords, nil
}

// ensureProject 确认项目存在
func (s *Service) ensureProject(ctx context.Context, projectID string) error {
	p, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return apperrors.ErrDatabaseError.WithError(err)
	}
	if p == nil {
		return apperrors.ErrProjectNotFound
	}
	return nil
}
