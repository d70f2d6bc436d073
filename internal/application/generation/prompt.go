// Package generation 实现内容生成流水线
package generation

import (
	"embed"
	"fmt"
	"strings"
	"sync"
	"text/template"
)

//go:embed templates/*.txt
var templatesFS embed.FS

// promptData 模板渲染数据
type promptData struct {
	Title           string
	Topic           string
	Audience        string
	Purpose         string
	Tone            string
	SentenceStyle   string
	Voice           string
	FeaturesText    string
	StyleLess       bool
	ChapterCount    int
	ChapterIndex    int
	ChapterTitle    string
	ChapterSummary  string
	PreviousIndex   int
	PreviousExcerpt string
	OutlineText     string
	SummariesText   string
	KeywordsText    string
}

// promptTemplates 单个产物类型的 system/user 模板对
type promptTemplates struct {
	system *template.Template
	user   *template.Template
}

// Registry 提示词模板注册表，模板按产物类型懒加载并缓存
type Registry struct {
	mu    sync.RWMutex
	cache map[ArtifactKind]*promptTemplates
}

// NewRegistry 创建提示词注册表
func NewRegistry() *Registry {
	return &Registry{
		cache: make(map[ArtifactKind]*promptTemplates),
	}
}

// Render 按产物类型渲染提示词
func (r *Registry) Render(gctx *Context) (Prompt, error) {
	tpl, err := r.templates(gctx.Kind)
	if err != nil {
		return Prompt{}, err
	}

	data := buildPromptData(gctx)

	var system, user strings.Builder
	if err := tpl.system.Execute(&system, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to render system prompt for %s: %w", gctx.Kind, err)
	}
	if err := tpl.user.Execute(&user, data); err != nil {
		return Prompt{}, fmt.Errorf("failed to render user prompt for %s: %w", gctx.Kind, err)
	}

	return Prompt{
		System: strings.TrimSpace(system.String()),
		User:   strings.TrimSpace(user.String()),
	}, nil
}

// templates 获取模板对，首次使用时从嵌入文件解析
func (r *Registry) templates(kind ArtifactKind) (*promptTemplates, error) {
	r.mu.RLock()
	if tpl, ok := r.cache[kind]; ok {
		r.mu.RUnlock()
		return tpl, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if tpl, ok := r.cache[kind]; ok {
		return tpl, nil
	}

	system, err := parseEmbeddedTemplate(fmt.Sprintf("templates/%s.system.txt", kind))
	if err != nil {
		return nil, err
	}
	user, err := parseEmbeddedTemplate(fmt.Sprintf("templates/%s.user.txt", kind))
	if err != nil {
		return nil, err
	}

	tpl := &promptTemplates{system: system, user: user}
	r.cache[kind] = tpl
	return tpl, nil
}

func parseEmbeddedTemplate(path string) (*template.Template, error) {
	b, err := templatesFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unknown prompt template %s: %w", path, err)
	}
	return template.New(path).Parse(strings.TrimSpace(string(b)))
}

// buildPromptData 将生成上下文摊平为模板数据
func buildPromptData(gctx *Context) promptData {
	data := promptData{
		ChapterCount: gctx.OutlineChapters,
	}

	if gctx.Project != nil {
		data.Title = gctx.Project.Title
		data.Topic = gctx.Project.Topic
		data.Audience = gctx.Project.TargetAudience
		data.Purpose = gctx.Project.Purpose
	}

	if gctx.Profile != nil {
		data.Tone = gctx.Profile.Tone
		data.SentenceStyle = gctx.Profile.SentenceStyle
		data.Voice = gctx.Profile.Voice
		data.FeaturesText = strings.Join(gctx.Profile.DistinctiveFeatures, "; ")
		data.StyleLess = gctx.Profile.StyleLess
	}

	if gctx.Chapter != nil {
		data.ChapterIndex = gctx.Chapter.Stub.Index
		data.ChapterTitle = gctx.Chapter.Stub.Title
		data.ChapterSummary = gctx.Chapter.Stub.Summary
		data.PreviousIndex = gctx.Chapter.PreviousIndex
		data.PreviousExcerpt = gctx.Chapter.PreviousExcerpt
	}

	if gctx.Marketing != nil {
		if gctx.Marketing.Outline != nil {
			var sb strings.Builder
			for _, stub := range gctx.Marketing.Outline.Chapters {
				fmt.Fprintf(&sb, "%d. %s — %s\n", stub.Index, stub.Title, stub.Summary)
			}
			data.OutlineText = strings.TrimSpace(sb.String())
		}
		data.SummariesText = strings.TrimSpace(strings.Join(gctx.Marketing.ChapterSummaries, "\n"))
		data.KeywordsText = strings.Join(gctx.Marketing.Keywords, ", ")
	}

	return data
}
