package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidSlot(t *testing.T) {
	assert.True(t, ValidSlot("summary"))
	assert.True(t, ValidSlot("chapterSummaries"))
	assert.True(t, ValidSlot("authorBio"))
	assert.True(t, ValidSlot("marketingBlurb"))
	assert.False(t, ValidSlot("keywords"))
	assert.False(t, ValidSlot("Summary"))
	assert.False(t, ValidSlot(""))
}

func TestMarketingBundle_SlotNilUntilSet(t *testing.T) {
	b := NewMarketingBundle("p1")
	assert.Nil(t, b.Slot(SlotSummary))
	assert.NotNil(t, b.Keywords)
	assert.Empty(t, b.Keywords)
}

func TestMarketingBundle_ClearedSlotIsNotNil(t *testing.T) {
	b := NewMarketingBundle("p1")
	b.SetSlot(SlotAuthorBio, "An author.")
	b.SetSlot(SlotAuthorBio, "")

	// 清空后是空字符串而非 nil，与从未生成区分
	got := b.Slot(SlotAuthorBio)
	require.NotNil(t, got)
	assert.Equal(t, "", *got)
}

func TestMarketingBundle_SetSlotLeavesOthersAlone(t *testing.T) {
	b := NewMarketingBundle("p1")
	b.SetSlot(SlotSummary, "A summary.")

	assert.Nil(t, b.ChapterSummaries)
	assert.Nil(t, b.AuthorBio)
	assert.Nil(t, b.MarketingBlurb)
}

func TestMarketingBundle_AddKeywordsDeduplicates(t *testing.T) {
	b := NewMarketingBundle("p1")
	b.AddKeywords([]string{"go", "testing"})
	b.AddKeywords([]string{"testing", "channels", "go", "channels"})

	assert.Equal(t, []string{"go", "testing", "channels"}, b.Keywords)
}

func TestMarketingBundle_AddKeywordsPreservesOrder(t *testing.T) {
	b := NewMarketingBundle("p1")
	b.Keywords = []string{"z", "a"}
	b.AddKeywords([]string{"m", "a"})

	assert.Equal(t, []string{"z", "a", "m"}, b.Keywords)
}
