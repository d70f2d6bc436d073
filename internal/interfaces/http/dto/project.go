package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Title          string `json:"title"`
	Topic          string `json:"topic"`
	TargetAudience string `json:"target_audience"`
	Purpose        string `json:"purpose,omitempty"`
}

// UpdateProjectRequest 部分更新项目请求，nil 字段保持不变
type UpdateProjectRequest struct {
	Title          *string `json:"title,omitempty"`
	Topic          *string `json:"topic,omitempty"`
	TargetAudience *string `json:"target_audience,omitempty"`
	Purpose        *string `json:"purpose,omitempty"`
	StyleSample    *string `json:"style_sample,omitempty"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Topic          string    `json:"topic"`
	TargetAudience string    `json:"target_audience"`
	Purpose        string    `json:"purpose,omitempty"`
	StyleSample    string    `json:"style_sample,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ToProjectResponse 实体转响应
func ToProjectResponse(p *entity.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:             p.ID,
		Title:          p.Title,
		Topic:          p.Topic,
		TargetAudience: p.TargetAudience,
		Purpose:        p.Purpose,
		StyleSample:    p.StyleSample,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

// ToProjectListResponse 实体列表转响应列表
func ToProjectListResponse(projects []*entity.Project) []*ProjectResponse {
	out := make([]*ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}
