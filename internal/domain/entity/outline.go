// Package entity 定义领域实体
package entity

import (
	"time"
)

// ChapterStub 大纲中的章节占位
type ChapterStub struct {
	Index   int    `json:"index"`
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// Outline 书籍大纲，按章节序号升序排列
type Outline struct {
	ProjectID string        `json:"project_id"`
	Chapters  []ChapterStub `json:"chapters"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewOutline 创建大纲
func NewOutline(projectID string, chapters []ChapterStub) *Outline {
	return &Outline{
		ProjectID: projectID,
		Chapters:  chapters,
		UpdatedAt: time.Now(),
	}
}

// Len 返回章节数
func (o *Outline) Len() int {
	return len(o.Chapters)
}

// StubAt 按序号查找章节占位
func (o *Outline) StubAt(index int) (ChapterStub, bool) {
	for _, stub := range o.Chapters {
		if stub.Index == index {
			return stub, true
		}
	}
	return ChapterStub{}, false
}
