package dto

import (
	"time"

	"bookforge-api/internal/domain/entity"
)

// SubmitStyleSampleRequest 提交风格样本请求
type SubmitStyleSampleRequest struct {
	Sample string `json:"sample" binding:"required"`
}

// StyleProfileResponse 风格画像响应
type StyleProfileResponse struct {
	ProjectID           string    `json:"project_id"`
	Tone                string    `json:"tone"`
	SentenceStyle       string    `json:"sentence_style"`
	Voice               string    `json:"voice"`
	DistinctiveFeatures []string  `json:"distinctive_features,omitempty"`
	SampleText          string    `json:"sample_text,omitempty"`
	ExampleRewrite      string    `json:"example_rewrite,omitempty"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// ToStyleProfileResponse 实体转响应
func ToStyleProfileResponse(p *entity.StyleProfile) *StyleProfileResponse {
	return &StyleProfileResponse{
		ProjectID:           p.ProjectID,
		Tone:                p.Tone,
		SentenceStyle:       p.SentenceStyle,
		Voice:               p.Voice,
		DistinctiveFeatures: p.DistinctiveFeatures,
		SampleText:          p.SampleText,
		ExampleRewrite:      p.ExampleRewrite,
		UpdatedAt:           p.UpdatedAt,
	}
}
