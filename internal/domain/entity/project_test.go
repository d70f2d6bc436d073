package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProject_Validate(t *testing.T) {
	assert.True(t, NewProject("T", "topic", "aud", "").Validate())
	assert.False(t, NewProject("", "topic", "aud", "").Validate())
	assert.False(t, NewProject("T", "  ", "aud", "").Validate())
	assert.False(t, NewProject("T", "topic", "", "purpose").Validate())
}

func TestProject_PurposeIsOptional(t *testing.T) {
	assert.True(t, NewProject("T", "topic", "aud", "").Validate())
}

func TestChapter_SetContentBumpsVersion(t *testing.T) {
	ch := NewChapter("p1", 1, "First")
	assert.Equal(t, 1, ch.GenerationVersion)
	assert.False(t, ch.HasContent())

	ch.SetContent("body")
	assert.Equal(t, 2, ch.GenerationVersion)
	assert.True(t, ch.HasContent())

	ch.SetContent("rewritten")
	assert.Equal(t, 3, ch.GenerationVersion)
}

func TestChapter_WhitespaceIsNotContent(t *testing.T) {
	ch := NewChapter("p1", 1, "First")
	ch.Content = "   \n\t "
	assert.False(t, ch.HasContent())
}

func TestOutline_StubAt(t *testing.T) {
	o := NewOutline("p1", []ChapterStub{
		{Index: 1, Title: "A", Summary: "a"},
		{Index: 3, Title: "C", Summary: "c"},
	})

	stub, ok := o.StubAt(3)
	assert.True(t, ok)
	assert.Equal(t, "C", stub.Title)

	_, ok = o.StubAt(2)
	assert.False(t, ok)
	assert.Equal(t, 2, o.Len())
}

func TestNeutralStyleProfile(t *testing.T) {
	p := NeutralStyleProfile("p1")
	assert.True(t, p.StyleLess)
	assert.NotEmpty(t, p.Tone)
	assert.NotEmpty(t, p.SentenceStyle)
	assert.NotEmpty(t, p.Voice)
	assert.Empty(t, p.DistinctiveFeatures)
}
