package style

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore_EnthusiasticTone(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("This topic is amazing! Everyone should learn it. Short words win.")
	assert.Equal(t, "Enthusiastic and energetic", profile.Tone)
}

func TestScore_CalmToneWithoutExclamation(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("The method is described below. Each step follows from the last.")
	assert.Equal(t, "Calm and measured", profile.Tone)
}

func TestScore_ComplexSentences(t *testing.T) {
	s := NewHeuristicScorer()

	// 一个超过 15 词的句子
	long := strings.Repeat("word ", 20) + "end."
	profile := s.Score(long)
	assert.Equal(t, "Complex with long sentences", profile.SentenceStyle)
}

func TestScore_ConciseSentences(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("Short sentence. Another one. A third here.")
	assert.Equal(t, "Straightforward with concise sentences", profile.SentenceStyle)
}

func TestScore_ConversationalVoice(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("I believe the reader deserves clarity. We owe them that much.")
	assert.Equal(t, "Conversational with personal pronouns", profile.Voice)
}

func TestScore_FormalVoice(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("The results indicate a clear trend. Further study is warranted.")
	assert.Equal(t, "Formal and objective", profile.Voice)
}

func TestScore_PronounDetectionIgnoresPunctuationAndCase(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score(`"We," said the author, will proceed.`)
	assert.Equal(t, "Conversational with personal pronouns", profile.Voice)
}

func TestScore_KeepsSampleAndFeatures(t *testing.T) {
	s := NewHeuristicScorer()
	sample := "The quick brown fox jumps over the lazy dog every single morning."

	profile := s.Score(sample)
	assert.Equal(t, sample, profile.SampleText)
	assert.Len(t, profile.DistinctiveFeatures, 4)
	assert.False(t, profile.StyleLess)
}

func TestScore_ExampleRewriteTakesFirstTwentyWords(t *testing.T) {
	s := NewHeuristicScorer()

	words := make([]string, 30)
	for i := range words {
		words[i] = "w"
	}
	profile := s.Score(strings.Join(words, " "))

	require.True(t, strings.HasSuffix(profile.ExampleRewrite, "... [continuing in your distinctive voice and approach]"))
	prefix := strings.TrimSuffix(profile.ExampleRewrite, "... [continuing in your distinctive voice and approach]")
	assert.Len(t, strings.Fields(prefix), 20)
}

func TestScore_ExampleRewriteShortSample(t *testing.T) {
	s := NewHeuristicScorer()

	profile := s.Score("just five little words here")
	assert.Equal(t, "just five little words here... [continuing in your distinctive voice and approach]", profile.ExampleRewrite)
}

func TestAvgSentenceLength_NoTerminator(t *testing.T) {
	// 无结束标点时整个样本按一句计
	assert.Equal(t, float64(4), avgSentenceLength("four words no period", 4))
}
