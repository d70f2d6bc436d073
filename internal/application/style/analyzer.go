// Package style 实现写作风格分析
package style

import (
	"strings"

	"bookforge-api/internal/domain/entity"
)

// Scorer 风格评分器，由写作样本推导画像属性
// 可替换为模型驱动的实现
type Scorer interface {
	Score(sample string) *entity.StyleProfile
}

// HeuristicScorer 基于文本统计的默认评分器
type HeuristicScorer struct{}

// NewHeuristicScorer 创建默认评分器
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// exampleRewriteWords 示例改写保留的样本开头词数
const exampleRewriteWords = 20

// Score 分析样本并返回画像
// 标点密度推导语气，平均句长推导句式，人称代词推导叙述口吻
func (s *HeuristicScorer) Score(sample string) *entity.StyleProfile {
	words := strings.Fields(sample)

	tone := "Calm and measured"
	if strings.Contains(sample, "!") {
		tone = "Enthusiastic and energetic"
	}

	sentenceStyle := "Straightforward with concise sentences"
	if avgSentenceLength(sample, len(words)) > 15 {
		sentenceStyle = "Complex with long sentences"
	}

	voice := "Formal and objective"
	if hasPersonalPronoun(words) {
		voice = "Conversational with personal pronouns"
	}

	profile := &entity.StyleProfile{
		Tone:          tone,
		SentenceStyle: sentenceStyle,
		Voice:         voice,
		DistinctiveFeatures: []string{
			"Uses metaphors to explain complex concepts",
			"Employs rhetorical questions to engage readers",
			"Balances technical information with accessible explanations",
			"Incorporates real-world examples to illustrate points",
		},
		SampleText:     sample,
		ExampleRewrite: exampleRewrite(words),
	}
	return profile
}

// avgSentenceLength 平均每句词数，按 .!? 切句
func avgSentenceLength(sample string, wordCount int) float64 {
	sentences := 0
	for _, part := range strings.FieldsFunc(sample, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	}) {
		if strings.TrimSpace(part) != "" {
			sentences++
		}
	}
	if sentences == 0 {
		return float64(wordCount)
	}
	return float64(wordCount) / float64(sentences)
}

// hasPersonalPronoun 样本是否使用第一人称
func hasPersonalPronoun(words []string) bool {
	for _, w := range words {
		w = strings.ToLower(strings.Trim(w, ".,;:!?\"'()"))
		if w == "i" || w == "we" || w == "i'm" || w == "we're" {
			return true
		}
	}
	return false
}

// exampleRewrite 截取样本开头并附说明，示意模型会如何延续该风格
func exampleRewrite(words []string) string {
	n := exampleRewriteWords
	if len(words) < n {
		n = len(words)
	}
	return strings.Join(words[:n], " ") + "... [continuing in your distinctive voice and approach]"
}
