// Package entity 定义领域实体
package entity

import (
	"strings"
	"time"
)

// Chapter 章节实体
// GenerationVersion 从 1 开始，每次内容写入（生成或人工编辑）递增 1
type Chapter struct {
	ID                string    `json:"id"`
	ProjectID         string    `json:"project_id"`
	Index             int       `json:"index"`
	Title             string    `json:"title"`
	Content           string    `json:"content"`
	GenerationVersion int       `json:"generation_version"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewChapter 创建新章节
func NewChapter(projectID string, index int, title string) *Chapter {
	now := time.Now()
	return &Chapter{
		ProjectID:         projectID,
		Index:             index,
		Title:             title,
		GenerationVersion: 1,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// SetContent 写入章节内容并递增生成版本号
func (c *Chapter) SetContent(content string) {
	c.Content = content
	c.GenerationVersion++
	c.UpdatedAt = time.Now()
}

// HasContent 检查章节是否已有非空内容
func (c *Chapter) HasContent() bool {
	return strings.TrimSpace(c.Content) != ""
}

// WordCount 返回内容词数
func (c *Chapter) WordCount() int {
	return len(strings.Fields(c.Content))
}
