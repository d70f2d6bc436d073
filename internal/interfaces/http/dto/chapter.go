package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// SaveChapterRequest 人工保存章节内容请求
type SaveChapterRequest struct {
	Content string `json:"content" binding:"required"`
}

// ChapterResponse 章节响应
type ChapterResponse struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"project_id"`
	Index             int       `json:"index"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	GenerationVersion int       `json:"generation_version"`
	WordCount         int       `json:"word_count"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ChapterSummaryResponse 章节摘要响应（列表用，不含正文）
type ChapterSummaryResponse struct {
	Index             int       `json:"index"`
	Title             string    `json:"title"`
	HasContent        bool      `json:"has_content"`
	GenerationVersion int       `json:"generation_version"`
	WordCount         int       `json:"word_count"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// ToChapterResponse 实体转响应
func ToChapterResponse(ch *entity.Chapter) *ChapterResponse {
	return &ChapterResponse{
		ID:                ch.ID,
		ProjectID:         ch.ProjectID,
		Index:             ch.Index,
		Title:             ch.Title,
		Content:           ch.Content,
		GenerationVersion: ch.GenerationVersion,
		WordCount:         ch.WordCount(),
		CreatedAt:         ch.CreatedAt,
		UpdatedAt:         ch.UpdatedAt,
	}
}

// ToChapterListResponse 实体列表转摘要列表
func ToChapterListResponse(chapters []*entity.Chapter) []*ChapterSummaryResponse {
	out := make([]*ChapterSummaryResponse, 0, len(chapters))
	for _, ch := range chapters {
		out = append(out, &ChapterSummaryResponse{
			Index:             ch.Index,
			Title:             ch.Title,
			HasContent:        ch.HasContent(),
			GenerationVersion: ch.GenerationVersion,
			WordCount:         ch.WordCount(),
			UpdatedAt:         ch.UpdatedAt,
		})
	}
	return out
}
