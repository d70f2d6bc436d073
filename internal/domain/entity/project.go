// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// Project 书籍项目实体
type Project struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Topic          string    `json:"topic"`
	TargetAudience string    `json:"target_audience"`
	Purpose        string    `json:"purpose,omitempty"`
	StyleSample    string    `json:"style_sample,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewProject 创建新项目
func NewProject(title, topic, targetAudience, purpose string) *Project {
	now := time.Now()
	return &Project{
		Title:          title,
		Topic:          topic,
		TargetAudience: targetAudience,
		Purpose:        purpose,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Validate 检查必填字段是否齐全
func (p *Project) Validate() bool {
	return strings.TrimSpace(p.Title) != "" &&
		strings.TrimSpace(p.Topic) != "" &&
		strings.TrimSpace(p.TargetAudience) != ""
}

// Touch 更新修改时间
func (p *Project) Touch() {
	p.UpdatedAt = time.Now()
}
