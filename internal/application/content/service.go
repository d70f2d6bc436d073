// Package content 实现大纲与章节的读取和人工编辑
package content

import (
	"context"
	"strings"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// Service 内容服务
// 人工编辑与生成共用同一落库路径，因此每次保存都会使版本号加一
type Service struct {
	projectRepo repository.ProjectRepository
	outlineRepo repository.OutlineRepository
	chapterRepo repository.ChapterRepository
}

// NewService 创建内容服务
func NewService(
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
) *Service {
	return &Service{
		projectRepo: projectRepo,
		outlineRepo: outlineRepo,
		chapterRepo: chapterRepo,
	}
}

// GetOutline 获取项目大纲
func (s *Service) GetOutline(ctx context.Context, projectID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "content.Service.GetOutline")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	outline, err := s.outlineRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}
	return outline, nil
}

// ListChapters 获取项目全部章节，按序号升序
func (s *Service) ListChapters(ctx context.Context, projectID string) ([]*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "content.Service.ListChapters")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	chapters, err := s.chapterRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	return chapters, nil
}

// GetChapter 按序号获取章节
func (s *Service) GetChapter(ctx context.Context, projectID string, index int) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "content.Service.GetChapter")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}

	chapter, err := s.chapterRepo.GetByIndex(ctx, projectID, index)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if chapter == nil {
		return nil, apperrors.ErrChapterNotFound
	}
	return chapter, nil
}

// ReplaceOutline 人工整体替换大纲
// 序号必须从 1 开始连续递增，标题不能为空；替换原子生效
func (s *Service) ReplaceOutline(ctx context.Context, projectID string, stubs []entity.ChapterStub) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "content.Service.ReplaceOutline")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	if len(stubs) == 0 {
		return nil, apperrors.ErrValidationFailed.WithDetail("outline must contain at least one chapter")
	}
	for i, stub := range stubs {
		if stub.Index != i+1 {
			return nil, apperrors.ErrValidationFailed.WithDetail("chapter indices must be contiguous starting from 1")
		}
		if strings.TrimSpace(stub.Title) == "" {
			return nil, apperrors.ErrValidationFailed.WithDetail("chapter title cannot be empty")
		}
	}

	outline := entity.NewOutline(projectID, stubs)
	if err := s.outlineRepo.Replace(ctx, outline); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after outline edit", "error", err.Error())
	}

	logger.Info(ctx, "outline replaced", "project_id", projectID, "chapters", len(stubs))
	return outline, nil
}

// SaveChapter 人工保存章节内容
// 序号必须落在当前大纲内；保存使版本号恰好加一
func (s *Service) SaveChapter(ctx context.Context, projectID string, index int, content string) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "content.Service.SaveChapter")
	defer span.End()

	if err := s.ensureProject(ctx, projectID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.ErrValidationFailed.WithDetail("chapter content cannot be empty")
	}

	outline, err := s.outlineRepo.GetByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if outline == nil {
		return nil, apperrors.ErrOutlineNotFound
	}
	stub, ok := outline.StubAt(index)
	if !ok {
		return nil, apperrors.ErrChapterNotFound
	}

	chapter := entity.NewChapter(projectID, index, stub.Title)
	chapter.SetContent(content)
	if err := s.chapterRepo.SaveContent(ctx, chapter); err != nil {
		return nil, apperrors.ErrDatabaseError.WithError(err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after chapter edit", "error", err.Error())
	}

	logger.Info(ctx, "chapter saved",
		"project_id", projectID, "index", index, "version", chapter.GenerationVersion)
	return chapter, nil
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
