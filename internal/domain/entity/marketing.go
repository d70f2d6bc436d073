// Package entity 定义领域实体
package entity

import (
	"time"
)

// MarketingSlot 营销素材槽位
type MarketingSlot string

const (
	SlotSummary          MarketingSlot = "summary"
	SlotChapterSummaries MarketingSlot = "chapterSummaries"
	SlotAuthorBio        MarketingSlot = "authorBio"
	SlotMarketingBlurb   MarketingSlot = "marketingBlurb"
)

// ValidSlot 检查槽位名是否合法
func ValidSlot(s string) bool {
	switch MarketingSlot(s) {
	case SlotSummary, SlotChapterSummaries, SlotAuthorBio, SlotMarketingBlurb:
		return true
	}
	return false
}

// MarketingBundle 项目的营销素材集合
// 槽位为 nil 表示从未生成过，空字符串表示被用户清空，两者语义不同
type MarketingBundle struct {
	ProjectID        string    `json:"project_id"`
	Summary          *string   `json:"summary"`
	ChapterSummaries *string   `json:"chapter_summaries"`
	AuthorBio        *string   `json:"author_bio"`
	MarketingBlurb   *string   `json:"marketing_blurb"`
	Keywords         []string  `json:"keywords"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// NewMarketingBundle 创建空的营销素材集合
func NewMarketingBundle(projectID string) *MarketingBundle {
	return &MarketingBundle{
		ProjectID: projectID,
		Keywords:  []string{},
		UpdatedAt: time.Now(),
	}
}

// Slot 读取指定槽位，nil 表示未生成
func (b *MarketingBundle) Slot(slot MarketingSlot) *string {
	switch slot {
	case SlotSummary:
		return b.Summary
	case SlotChapterSummaries:
		return b.ChapterSummaries
	case SlotAuthorBio:
		return b.AuthorBio
	case SlotMarketingBlurb:
		return b.MarketingBlurb
	}
	return nil
}

// SetSlot 写入指定槽位
func (b *MarketingBundle) SetSlot(slot MarketingSlot, value string) {
	v := value
	switch slot {
	case SlotSummary:
		b.Summary = &v
	case SlotChapterSummaries:
		b.ChapterSummaries = &v
	case SlotAuthorBio:
		b.AuthorBio = &v
	case SlotMarketingBlurb:
		b.MarketingBlurb = &v
	}
	b.UpdatedAt = time.Now()
}

// AddKeywords 合并关键词，按成员唯一去重并保持插入顺序
func (b *MarketingBundle) AddKeywords(keywords []string) {
	seen := make(map[string]struct{}, len(b.Keywords)+len(keywords))
	for _, k := range b.Keywords {
		seen[k] = struct{}{}
	}
	for _, k := range keywords {
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		b.Keywords = append(b.Keywords, k)
	}
	b.UpdatedAt = time.Now()
}
