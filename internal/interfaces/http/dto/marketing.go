package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// EditSlotRequest 人工写入槽位请求
// Content 为空字符串表示显式清空槽位
type EditSlotRequest struct {
	Content *string `json:"content" binding:"required"`
}

// SetKeywordsRequest 整体替换关键词请求
type SetKeywordsRequest struct {
	Keywords []string `json:"keywords" binding:"required"`
}

// MarketingSlotResponse 单槽位响应
type MarketingSlotResponse struct {
	Slot string `json:"slot"`
	// Content 为 nil 表示从未生成，空字符串表示被清空
	Content *string `json:"content"`
}

// MarketingBundleResponse 营销素材集合响应
type MarketingBundleResponse struct {
	ProjectID        string    `json:"project_id"`
	Summary          *string   `json:"summary"`
	ChapterSummaries *string   `json:"chapter_summaries"`
	AuthorBio        *string   `json:"author_bio"`
	MarketingBlurb   *string   `json:"marketing_blurb"`
	Keywords         []string  `json:"keywords"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// KeywordsResponse 关键词响应
type KeywordsResponse struct {
	ProjectID string   `json:"project_id"`
	Keywords  []string `json:"keywords"`
}

// ToMarketingBundleResponse 实体转响应
func ToMarketingBundleResponse(b *entity.MarketingBundle) *MarketingBundleResponse {
	keywords := b.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return &MarketingBundleResponse{
		ProjectID:        b.ProjectID,
		Summary:          b.Summary,
		ChapterSummaries: b.ChapterSummaries,
		AuthorBio:        b.AuthorBio,
		MarketingBlurb:   b.MarketingBlurb,
		Keywords:         keywords,
		UpdatedAt:        b.UpdatedAt,
	}
}
