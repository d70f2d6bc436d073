package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// ChapterStubRequest 大纲章节存根请求
type ChapterStubRequest struct {
	Index   int    `json:"index" binding:"required,min=1"`
	Title   string `json:"title" binding:"required"`
	Summary string `json:"summary"`
}

// ReplaceOutlineRequest 整体替换大纲请求
type ReplaceOutlineRequest struct {
	Chapters []ChapterStubRequest `json:"chapters" binding:"required,min=1,dive"`
}

// ToChapterStubs 请求转实体存根列表
func (r *ReplaceOutlineRequest) ToChapterStubs() []entity.ChapterStub {
	stubs := make([]entity.ChapterStub, 0, len(r.Chapters))
	for _, ch := range r.Chapters {
		stubs = append(stubs, entity.ChapterStub{
			Index:   ch.Index,
			Title:   ch.Title,
			Summary: ch.Summary,
		})
	}
	return stubs
}

// ChapterStubResponse 大纲章节存根响应
type ChapterStubResponse struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// OutlineResponse 大纲响应
type OutlineResponse struct {
	ProjectID string                `json:"project_id"`
	Chapters  []ChapterStubResponse `json:"chapters"`
	UpdatedAt time.Time             `json:"updated_at"`
}

// ToOutlineResponse 实体转响应
func ToOutlineResponse(o *entity.Outline) *OutlineResponse {
	chapters := make([]ChapterStubResponse, 0, len(o.Chapters))
	for _, stub := range o.Chapters {
		chapters = append(chapters, ChapterStubResponse{
			Index:   stub.Index,
			Title:   stub.Title,
			Summary: stub.Summary,
		})
	}
	return &OutlineResponse{
		ProjectID: o.ProjectID,
		Chapters:  chapters,
		UpdatedAt: o.UpdatedAt,
	}
}
