package generation

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/domain/entity"
	apperrors "bookforge-api/pkg/errors"
)

type fakeStyleRepo struct {
	profile *entity.StyleProfile
}

func (f *fakeStyleRepo) Upsert(context.Context, *entity.StyleProfile) error { return nil }
func (f *fakeStyleRepo) GetByProject(context.Context, string) (*entity.StyleProfile, error) {
	return f.profile, nil
}
func (f *fakeStyleRepo) DeleteByProject(context.Context, string) error { return nil }

type fakeOutlineRepo struct {
	outline *entity.Outline
}

func (f *fakeOutlineRepo) Replace(_ context.Context, o *entity.Outline) error {
	f.outline = o
	return nil
}
func (f *fakeOutlineRepo) GetByProject(context.Context, string) (*entity.Outline, error) {
	return f.outline, nil
}

type fakeChapterRepo struct {
	chapters []*entity.Chapter
}

func (f *fakeChapterRepo) SaveContent(_ context.Context, ch *entity.Chapter) error {
	for i, existing := range f.chapters {
		if existing.Index == ch.Index {
			f.chapters[i] = ch
			return nil
		}
	}
	f.chapters = append(f.chapters, ch)
	return nil
}

func (f *fakeChapterRepo) GetByIndex(_ context.Context, _ string, index int) (*entity.Chapter, error) {
	for _, ch := range f.chapters {
		if ch.Index == index {
			return ch, nil
		}
	}
	return nil, nil
}

func (f *fakeChapterRepo) ListByProject(context.Context, string) ([]*entity.Chapter, error) {
	return f.chapters, nil
}

func (f *fakeChapterRepo) ContentIndices(context.Context, string) (map[int]struct{}, error) {
	out := make(map[int]struct{})
	for _, ch := range f.chapters {
		if ch.HasContent() {
			out[ch.Index] = struct{}{}
		}
	}
	return out, nil
}

type fakeMktRepo struct {
	bundle *entity.MarketingBundle
}

func (f *fakeMktRepo) Get(_ context.Context, projectID string) (*entity.MarketingBundle, error) {
	if f.bundle == nil {
		return entity.NewMarketingBundle(projectID), nil
	}
	return f.bundle, nil
}
func (f *fakeMktRepo) SetSlot(_ context.Context, projectID string, slot entity.MarketingSlot, value string) error {
	if f.bundle == nil {
		f.bundle = entity.NewMarketingBundle(projectID)
	}
	f.bundle.SetSlot(slot, value)
	return nil
}
func (f *fakeMktRepo) SetKeywords(_ context.Context, projectID string, keywords []string) error {
	if f.bundle == nil {
		f.bundle = entity.NewMarketingBundle(projectID)
	}
	f.bundle.Keywords = keywords
	return nil
}

func chapterWithContent(index int, content string) *entity.Chapter {
	ch := entity.NewChapter("p1", index, "ch")
	ch.Content = content
	return ch
}

func testOutline(n int) *entity.Outline {
	stubs := make([]entity.ChapterStub, 0, n)
	for i := 1; i <= n; i++ {
		stubs = append(stubs, entity.ChapterStub{Index: i, Title: "T", Summary: "S"})
	}
	return entity.NewOutline("p1", stubs)
}

func TestBuildContext_NeutralProfileWhenUntrained(t *testing.T) {
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{}, &fakeChapterRepo{}, &fakeMktRepo{}, 2000, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindOutline, 0)
	require.NoError(t, err)
	assert.True(t, gctx.Profile.StyleLess)
	assert.Equal(t, 8, gctx.OutlineChapters)
}

func TestBuildContext_ChapterRequiresOutline(t *testing.T) {
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{}, &fakeChapterRepo{}, &fakeMktRepo{}, 2000, 8)

	_, err := a.BuildContext(context.Background(), testProject(), KindChapter, 1)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOutlineNotFound))
}

func TestBuildContext_ChapterIndexOutsideOutline(t *testing.T) {
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{outline: testOutline(3)}, &fakeChapterRepo{}, &fakeMktRepo{}, 2000, 8)

	_, err := a.BuildContext(context.Background(), testProject(), KindChapter, 9)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeChapterNotFound))
}

func TestBuildContext_PreviousExcerptFromNearestWrittenChapter(t *testing.T) {
	chapters := &fakeChapterRepo{chapters: []*entity.Chapter{
		chapterWithContent(1, "chapter one body"),
		entity.NewChapter("p1", 2, "empty"),
		chapterWithContent(3, "chapter three body"),
		chapterWithContent(5, "chapter five body"),
	}}
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{outline: testOutline(6)}, chapters, &fakeMktRepo{}, 2000, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindChapter, 5)
	require.NoError(t, err)
	require.NotNil(t, gctx.Chapter)
	// 序号 4 无记录、2 无内容，最近的已写章节是 3
	assert.Equal(t, 3, gctx.Chapter.PreviousIndex)
	assert.Equal(t, "chapter three body", gctx.Chapter.PreviousExcerpt)
}

func TestBuildContext_FirstChapterHasNoExcerpt(t *testing.T) {
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{outline: testOutline(3)}, &fakeChapterRepo{}, &fakeMktRepo{}, 2000, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindChapter, 1)
	require.NoError(t, err)
	assert.Zero(t, gctx.Chapter.PreviousIndex)
	assert.Empty(t, gctx.Chapter.PreviousExcerpt)
}

func TestBuildContext_ExcerptTruncatedToBudget(t *testing.T) {
	long := strings.Repeat("а", 100) + "END"
	chapters := &fakeChapterRepo{chapters: []*entity.Chapter{chapterWithContent(1, long)}}
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{outline: testOutline(3)}, chapters, &fakeMktRepo{}, 10, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindChapter, 2)
	require.NoError(t, err)
	// 预算按 rune 计，保留结尾
	assert.Equal(t, 10, len([]rune(gctx.Chapter.PreviousExcerpt)))
	assert.True(t, strings.HasSuffix(gctx.Chapter.PreviousExcerpt, "END"))
}

func TestBuildContext_MarketingSummariesSkipHeadings(t *testing.T) {
	chapters := &fakeChapterRepo{chapters: []*entity.Chapter{
		chapterWithContent(1, "# Heading\n\nThe opening line of chapter one."),
		entity.NewChapter("p1", 2, "empty"),
		chapterWithContent(3, "Chapter three starts plainly."),
	}}
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{outline: testOutline(3)}, chapters, &fakeMktRepo{}, 2000, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindSummary, 0)
	require.NoError(t, err)
	require.NotNil(t, gctx.Marketing)
	assert.Equal(t, []string{
		"Chapter 1: The opening line of chapter one.",
		"Chapter 3: Chapter three starts plainly.",
	}, gctx.Marketing.ChapterSummaries)
}

func TestBuildContext_KeywordsLoadsExisting(t *testing.T) {
	bundle := entity.NewMarketingBundle("p1")
	bundle.Keywords = []string{"go", "testing"}
	a := NewAssembler(&fakeStyleRepo{}, &fakeOutlineRepo{}, &fakeChapterRepo{}, &fakeMktRepo{bundle: bundle}, 2000, 8)

	gctx, err := a.BuildContext(context.Background(), testProject(), KindKeywords, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, gctx.Marketing.Keywords)

	other, err := a.BuildContext(context.Background(), testProject(), KindSummary, 0)
	require.NoError(t, err)
	assert.Empty(t, other.Marketing.Keywords)
}

func TestTailExcerpt(t *testing.T) {
	assert.Equal(t, "short", tailExcerpt("  short  ", 100))
	assert.Equal(t, "cdef", tailExcerpt("abcdef", 4))
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "body", firstLine("# title\n\nbody\nmore"))
	assert.Equal(t, "", firstLine("# only a heading"))
	assert.Equal(t, "plain", firstLine("plain"))
}
