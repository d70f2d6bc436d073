package generation

import (
	"context"
	"fmt"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
	"bookforge-api/pkg/logger"
	"bookforge-api/pkg/tracer"
)

// Service 生成服务
// 编排装配、引擎调用与产物落库；落库失败原样上抛供调用方区分存储错误
type Service struct {
	projectRepo repository.ProjectRepository
	outlineRepo repository.OutlineRepository
	chapterRepo repository.ChapterRepository
	mktRepo     repository.MarketingRepository

	assembler *Assembler
	engine    *Engine
}

// NewService 创建生成服务
func NewService(
	projectRepo repository.ProjectRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	mktRepo repository.MarketingRepository,
	assembler *Assembler,
	engine *Engine,
) *Service {
	return &Service{
		projectRepo: projectRepo,
		outlineRepo: outlineRepo,
		chapterRepo: chapterRepo,
		mktRepo:     mktRepo,
		assembler:   assembler,
		engine:      engine,
	}
}

// GenerateOutline 生成并整体替换项目大纲
func (s *Service) GenerateOutline(ctx context.Context, projectID string) (*entity.Outline, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateOutline")
	defer span.End()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	gctx, err := s.assembler.BuildContext(ctx, project, KindOutline, 0)
	if err != nil {
		return nil, err
	}

	var stubs []entity.ChapterStub
	if _, err := s.engine.Generate(ctx, gctx, func(raw string) error {
		parsed, perr := ParseOutline(raw, gctx.OutlineChapters)
		if perr != nil {
			return perr
		}
		stubs = parsed
		return nil
	}); err != nil {
		return nil, err
	}

	outline := entity.NewOutline(projectID, stubs)
	if err := s.outlineRepo.Replace(ctx, outline); err != nil {
		return nil, fmt.Errorf("failed to replace outline: %w", err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after outline replace", "error", err.Error())
	}

	logger.Info(ctx, "outline generated", "project_id", projectID, "chapters", outline.Len())
	return outline, nil
}

// GenerateChapter 生成目标章节并写入内容
// 再次生成同一章节会覆盖内容并将版本加一
func (s *Service) GenerateChapter(ctx context.Context, projectID string, index int) (*entity.Chapter, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateChapter")
	defer span.End()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	gctx, err := s.assembler.BuildContext(ctx, project, KindChapter, index)
	if err != nil {
		return nil, err
	}

	output, err := s.engine.Generate(ctx, gctx, nil)
	if err != nil {
		return nil, err
	}

	chapter := entity.NewChapter(projectID, index, gctx.Chapter.Stub.Title)
	chapter.SetContent(output)
	if err := s.chapterRepo.SaveContent(ctx, chapter); err != nil {
		return nil, fmt.Errorf("failed to save chapter content: %w", err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after chapter save", "error", err.Error())
	}

	logger.Info(ctx, "chapter generated",
		"project_id", projectID, "index", index, "version", chapter.GenerationVersion)
	return chapter, nil
}

// GenerateMarketingSlot 生成单个营销槽位并写入
func (s *Service) GenerateMarketingSlot(ctx context.Context, projectID string, slot entity.MarketingSlot) (string, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateMarketingSlot")
	defer span.End()

	kind, err := slotKind(slot)
	if err != nil {
		return "", err
	}

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return "", err
	}

	gctx, err := s.assembler.BuildContext(ctx, project, kind, 0)
	if err != nil {
		return "", err
	}

	output, err := s.engine.Generate(ctx, gctx, nil)
	if err != nil {
		return "", err
	}

	if err := s.mktRepo.SetSlot(ctx, projectID, slot, output); err != nil {
		return "", fmt.Errorf("failed to save marketing slot: %w", err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after slot save", "error", err.Error())
	}

	logger.Info(ctx, "marketing slot generated", "project_id", projectID, "slot", string(slot))
	return output, nil
}

// GenerateKeywords 生成关键词并按集合语义并入既有列表
func (s *Service) GenerateKeywords(ctx context.Context, projectID string) ([]string, error) {
	ctx, span := tracer.Start(ctx, "generation.Service.GenerateKeywords")
	defer span.End()

	project, err := s.loadProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	gctx, err := s.assembler.BuildContext(ctx, project, KindKeywords, 0)
	if err != nil {
		return nil, err
	}

	var generated []string
	if _, err := s.engine.Generate(ctx, gctx, func(raw string) error {
		parsed, perr := ParseKeywords(raw)
		if perr != nil {
			return perr
		}
		generated = parsed
		return nil
	}); err != nil {
		return nil, err
	}

	bundle, err := s.mktRepo.Get(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load marketing bundle: %w", err)
	}
	bundle.AddKeywords(generated)

	if err := s.mktRepo.SetKeywords(ctx, projectID, bundle.Keywords); err != nil {
		return nil, fmt.Errorf("failed to save keywords: %w", err)
	}
	if err := s.projectRepo.Touch(ctx, projectID); err != nil {
		logger.Warn(ctx, "failed to touch project after keywords save", "error", err.Error())
	}

	logger.Info(ctx, "keywords generated", "project_id", projectID, "count", len(bundle.Keywords))
	return bundle.Keywords, nil
}

// loadProject 加载项目，不存在时返回项目不存在错误
func (s *Service) loadProject(ctx context.Context, projectID string) (*entity.Project, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, apperrors.ErrProjectNotFound
	}
	return project, nil
}

// slotKind 营销槽位到产物类型的映射
func slotKind(slot entity.MarketingSlot) (ArtifactKind, error) {
	switch slot {
	case entity.SlotSummary:
		return KindSummary, nil
	case entity.SlotChapterSummaries:
		return KindChapterSummaries, nil
	case entity.SlotAuthorBio:
		return KindAuthorBio, nil
	case entity.SlotMarketingBlurb:
		return KindMarketingBlurb, nil
	}
	return "", apperrors.ErrInvalidParam.WithDetail(fmt.Sprintf("unknown marketing slot %q", slot))
}
