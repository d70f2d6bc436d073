package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONValue_StripsCodeFence(t *testing.T) {
	raw := "```json\n[{\"title\":\"A\",\"summary\":\"B\"}]\n```"
	got := ExtractJSONValue(raw)
	assert.Equal(t, `[{"title":"A","summary":"B"}]`, got)
}

func TestExtractJSONValue_StripsSurroundingText(t *testing.T) {
	raw := `Sure, here is the outline you asked for:

[{"title":"A","summary":"B"}]

Let me know if you need changes.`
	got := ExtractJSONValue(raw)
	assert.Equal(t, `[{"title":"A","summary":"B"}]`, got)
}

func TestExtractJSONValue_PlainTextUnchanged(t *testing.T) {
	raw := "no json here at all"
	assert.Equal(t, raw, ExtractJSONValue(raw))
}

func TestExtractJSONValue_PrefersObjectWhenFirst(t *testing.T) {
	raw := `{"keywords": ["a", "b"]} trailing`
	got := ExtractJSONValue(raw)
	assert.Equal(t, `{"keywords": ["a", "b"]}`, got)
}

func TestParseOutline_Valid(t *testing.T) {
	raw := `[
		{"title": "Getting Started", "summary": "Introduces the basics."},
		{"title": "Going Deeper", "summary": "Builds on chapter one."}
	]`

	stubs, err := ParseOutline(raw, 2)
	require.NoError(t, err)
	require.Len(t, stubs, 2)
	assert.Equal(t, 1, stubs[0].Index)
	assert.Equal(t, "Getting Started", stubs[0].Title)
	assert.Equal(t, 2, stubs[1].Index)
	assert.Equal(t, "Builds on chapter one.", stubs[1].Summary)
}

func TestParseOutline_WrongChapterCount(t *testing.T) {
	raw := `[{"title": "Only One", "summary": "Not enough."}]`

	_, err := ParseOutline(raw, 8)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 8")
}

func TestParseOutline_MissingFields(t *testing.T) {
	raw := `[
		{"title": "Fine", "summary": "Fine."},
		{"title": "", "summary": "No title here."}
	]`

	_, err := ParseOutline(raw, 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chapter 2")
}

func TestParseOutline_NotJSON(t *testing.T) {
	_, err := ParseOutline("Chapter 1: The Beginning", 8)
	assert.Error(t, err)
}

func TestParseKeywords_Valid(t *testing.T) {
	raw := "```json\n[\"go\", \"concurrency\", \" channels \"]\n```"

	keywords, err := ParseKeywords(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "concurrency", "channels"}, keywords)
}

func TestParseKeywords_DropsEmptyEntries(t *testing.T) {
	keywords, err := ParseKeywords(`["a", "", "  ", "b"]`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keywords)
}

func TestParseKeywords_AllEmpty(t *testing.T) {
	_, err := ParseKeywords(`["", " "]`)
	assert.Error(t, err)
}

func TestParseKeywords_NotAnArray(t *testing.T) {
	_, err := ParseKeywords(`{"keywords": ["a"]}`)
	assert.Error(t, err)
}
