// Package entity 定义领域实体
package entity

import (
	"time"
)

// MinStyleSampleWords 风格样本的最小词数
const MinStyleSampleWords = 50

// StyleProfile 写作风格画像
// 由风格样本分析得到；StyleLess 表示项目尚未训练风格，使用中性默认值
type StyleProfile struct {
	ID            string `json:"id,omitempty"`
	ProjectID     string `json:"project_id"`
	Tone          string `json:"tone"`
	SentenceStyle string `json:"sentence_style"`
	Voice         string `json:"voice"`
	// DistinctiveFeatures 有序的风格特征描述
	DistinctiveFeatures []string  `json:"distinctive_features,omitempty"`
	SampleText          string    `json:"sample_text,omitempty"`
	ExampleRewrite      string    `json:"example_rewrite,omitempty"`
	StyleLess           bool      `json:"style_less"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewStyleProfile 创建新的风格画像
func NewStyleProfile(projectID, tone, sentenceStyle, voice string) *StyleProfile {
	now := time.Now()
	return &StyleProfile{
		ProjectID:     projectID,
		Tone:          tone,
		SentenceStyle: sentenceStyle,
		Voice:         voice,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// NeutralStyleProfile 返回未训练风格时使用的中性画像
func NeutralStyleProfile(projectID string) *StyleProfile {
	p := NewStyleProfile(projectID,
		"Professional and measured",
		"Clear, concise sentences",
		"Objective and informative",
	)
	p.StyleLess = true
	return p
}
