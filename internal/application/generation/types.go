// Package generation 实现内容生成流水线：上下文装配、提示词渲染与生成引擎
package generation

import (
	"context"

	"bookforge-api/internal/domain/entity"
)

// ArtifactKind 生成产物类型
type ArtifactKind string

const (
	KindOutline          ArtifactKind = "outline"
	KindChapter          ArtifactKind = "chapter"
	KindSummary          ArtifactKind = "summary"
	KindChapterSummaries ArtifactKind = "chapterSummaries"
	KindAuthorBio        ArtifactKind = "authorBio"
	KindMarketingBlurb   ArtifactKind = "marketingBlurb"
	KindKeywords         ArtifactKind = "keywords"
)

// MarketingKind 判断产物是否为营销类
func (k ArtifactKind) MarketingKind() bool {
	switch k {
	case KindSummary, KindChapterSummaries, KindAuthorBio, KindMarketingBlurb, KindKeywords:
		return true
	}
	return false
}

// Prompt 一次模型调用的完整输入
type Prompt struct {
	System string
	User   string
}

// Invoker 模型调用端口
// 实现方负责网络传输；超时与重试由引擎统一控制
type Invoker interface {
	Invoke(ctx context.Context, prompt Prompt) (string, error)
}

// ChapterContext 章节生成的上下文切片
type ChapterContext struct {
	Stub entity.ChapterStub
	// PreviousIndex 前一个已有内容章节的序号，0 表示没有
	PreviousIndex int
	// PreviousExcerpt 前一章节内容摘录，已按预算截断
	PreviousExcerpt string
}

// MarketingContext 营销类生成的上下文切片
type MarketingContext struct {
	Outline *entity.Outline
	// ChapterSummaries 已有内容章节的首行摘要，按序号升序
	ChapterSummaries []string
	// Keywords 已有关键词（仅关键词生成使用，便于去重提示）
	Keywords []string
}

// Context 一次生成所需的全部输入
type Context struct {
	Project *entity.Project
	Profile *entity.StyleProfile
	Kind    ArtifactKind
	// TargetIndex 目标章节序号，仅章节生成使用
	TargetIndex int
	// OutlineChapters 大纲生成的目标章节数
	OutlineChapters int

	Chapter   *ChapterContext
	Marketing *MarketingContext
}
