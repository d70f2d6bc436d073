package generation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"bookforge-api/internal/domain/entity"
)

// ExtractJSONValue 尝试从模型输出中截取"第一个完整 JSON 对象/数组"。
// 这是一个容错逻辑：模型可能会在 JSON 前后夹杂多余文本或代码围栏。
func ExtractJSONValue(s string) string {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return raw
	}

	// 如果模型输出夹杂了其它文本，尽量截取第一个 JSON 值（对象/数组）。
	objStart := strings.Index(raw, "{")
	arrStart := strings.Index(raw, "[")
	start := -1
	end := -1
	switch {
	case objStart >= 0 && (arrStart < 0 || objStart < arrStart):
		start = objStart
		end = strings.LastIndex(raw, "}")
	case arrStart >= 0:
		start = arrStart
		end = strings.LastIndex(raw, "]")
	}
	if start >= 0 && end > start {
		raw = raw[start : end+1]
	}

	// 简单校验：确保至少能被 Decoder 消费到一个 JSON 起始。
	dec := json.NewDecoder(strings.NewReader(raw))
	dec.UseNumber()
	tok, err := dec.Token()
	if err == nil {
		if d, ok := tok.(json.Delim); ok && (d == '{' || d == '[') {
			return raw
		}
	}

	// 最后兜底：尝试读取到 EOF 为止，避免调用方误用。
	dec = json.NewDecoder(strings.NewReader(raw))
	for {
		_, e := dec.Token()
		if e != nil {
			if errors.Is(e, io.EOF) {
				break
			}
			return strings.TrimSpace(s)
		}
	}
	return raw
}

// outlineItem 大纲 JSON 项
type outlineItem struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
}

// ParseOutline 解析模型输出为章节存根列表
// 要求恰好 expected 个条目，且每条都有非空 title 和 summary
func ParseOutline(raw string, expected int) ([]entity.ChapterStub, error) {
	var items []outlineItem
	if err := json.Unmarshal([]byte(ExtractJSONValue(raw)), &items); err != nil {
		return nil, fmt.Errorf("outline is not a JSON array: %w", err)
	}

	if len(items) != expected {
		return nil, fmt.Errorf("outline has %d chapters, expected %d", len(items), expected)
	}

	stubs := make([]entity.ChapterStub, 0, len(items))
	for i, item := range items {
		title := strings.TrimSpace(item.Title)
		summary := strings.TrimSpace(item.Summary)
		if title == "" || summary == "" {
			return nil, fmt.Errorf("outline chapter %d is missing title or summary", i+1)
		}
		stubs = append(stubs, entity.ChapterStub{
			Index:   i + 1,
			Title:   title,
			Summary: summary,
		})
	}
	return stubs, nil
}

// ParseKeywords 解析模型输出为关键词列表
// 接受 JSON 字符串数组；空白与空条目被剔除
func ParseKeywords(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(ExtractJSONValue(raw)), &items); err != nil {
		return nil, fmt.Errorf("keywords is not a JSON string array: %w", err)
	}

	keywords := make([]string, 0, len(items))
	for _, item := range items {
		if kw := strings.TrimSpace(item); kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("keywords array is empty")
	}
	return keywords, nil
}
