package generation

import (
	"context"
	"fmt"
	"strings"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
)

// Assembler 生成上下文装配器
// 从各仓储汇集项目信息、风格画像与前置章节摘录
type Assembler struct {
	styleRepo   repository.StyleProfileRepository
	outlineRepo repository.OutlineRepository
	chapterRepo repository.ChapterRepository
	mktRepo     repository.MarketingRepository

	// budgetChars 前置章节摘录的最大字符数
	budgetChars int
	// outlineChapters 大纲生成的目标章节数
	outlineChapters int
}

// NewAssembler 创建上下文装配器
func NewAssembler(
	styleRepo repository.StyleProfileRepository,
	outlineRepo repository.OutlineRepository,
	chapterRepo repository.ChapterRepository,
	mktRepo repository.MarketingRepository,
	budgetChars int,
	outlineChapters int,
) *Assembler {
	if budgetChars <= 0 {
		budgetChars = 2000
	}
	if outlineChapters <= 0 {
		outlineChapters = 8
	}
	return &Assembler{
		styleRepo:       styleRepo,
		outlineRepo:     outlineRepo,
		chapterRepo:     chapterRepo,
		mktRepo:         mktRepo,
		budgetChars:     budgetChars,
		outlineChapters: outlineChapters,
	}
}

// BuildContext 装配一次生成所需的全部输入
// 项目未训练风格时使用中性画像；章节生成要求大纲和目标存根存在
func (a *Assembler) BuildContext(ctx context.Context, project *entity.Project, kind ArtifactKind, targetIndex int) (*Context, error) {
	profile, err := a.styleRepo.GetByProject(ctx, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load style profile: %w", err)
	}
	if profile == nil {
		profile = entity.NeutralStyleProfile(project.ID)
	}

	gctx := &Context{
		Project:         project,
		Profile:         profile,
		Kind:            kind,
		TargetIndex:     targetIndex,
		OutlineChapters: a.outlineChapters,
	}

	switch {
	case kind == KindChapter:
		if err := a.buildChapterContext(ctx, gctx); err != nil {
			return nil, err
		}
	case kind.MarketingKind():
		if err := a.buildMarketingContext(ctx, gctx); err != nil {
			return nil, err
		}
	}

	return gctx, nil
}

// buildChapterContext 装配章节生成上下文
// 前置摘录取序号最大的、早于目标且已有内容的章节结尾
func (a *Assembler) buildChapterContext(ctx context.Context, gctx *Context) error {
	outline, err := a.outlineRepo.GetByProject(ctx, gctx.Project.ID)
	if err != nil {
		return fmt.Errorf("failed to load outline: %w", err)
	}
	if outline == nil {
		return apperrors.ErrOutlineNotFound
	}

	stub, ok := outline.StubAt(gctx.TargetIndex)
	if !ok {
		return apperrors.ErrChapterNotFound.WithDetail(
			fmt.Sprintf("chapter index %d is outside the outline", gctx.TargetIndex))
	}

	cc := &ChapterContext{Stub: stub}

	chapters, err := a.chapterRepo.ListByProject(ctx, gctx.Project.ID)
	if err != nil {
		return fmt.Errorf("failed to list chapters: %w", err)
	}
	for _, ch := range chapters {
		if ch.Index >= gctx.TargetIndex {
			break
		}
		if ch.HasContent() {
			cc.PreviousIndex = ch.Index
			cc.PreviousExcerpt = tailExcerpt(ch.Content, a.budgetChars)
		}
	}

	gctx.Chapter = cc
	return nil
}

// buildMarketingContext 装配营销类生成上下文
func (a *Assembler) buildMarketingContext(ctx context.Context, gctx *Context) error {
	outline, err := a.outlineRepo.GetByProject(ctx, gctx.Project.ID)
	if err != nil {
		return fmt.Errorf("failed to load outline: %w", err)
	}

	mc := &MarketingContext{Outline: outline}

	chapters, err := a.chapterRepo.ListByProject(ctx, gctx.Project.ID)
	if err != nil {
		return fmt.Errorf("failed to list chapters: %w", err)
	}
	for _, ch := range chapters {
		if !ch.HasContent() {
			continue
		}
		if line := firstLine(ch.Content); line != "" {
			mc.ChapterSummaries = append(mc.ChapterSummaries,
				fmt.Sprintf("Chapter %d: %s", ch.Index, line))
		}
	}

	if gctx.Kind == KindKeywords {
		bundle, err := a.mktRepo.Get(ctx, gctx.Project.ID)
		if err != nil {
			return fmt.Errorf("failed to load marketing bundle: %w", err)
		}
		mc.Keywords = bundle.Keywords
	}

	gctx.Marketing = mc
	return nil
}

// tailExcerpt 取文本结尾不超过 budget 个字符（按 rune 截断）
func tailExcerpt(s string, budget int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[len(runes)-budget:])
}

// firstLine 取首个非空且非 Markdown 标题的行
func firstLine(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		return line
	}
	return ""
}
