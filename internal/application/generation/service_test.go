package generation

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	apperrors "bookforge-api/pkg/errors"
)

type fakeProjectRepo struct {
	project *entity.Project
	touched int
}

func (f *fakeProjectRepo) Create(context.Context, *entity.Project) error { return nil }
func (f *fakeProjectRepo) GetByID(context.Context, string) (*entity.Project, error) {
	return f.project, nil
}
func (f *fakeProjectRepo) Update(context.Context, *entity.Project) error { return nil }
func (f *fakeProjectRepo) Delete(context.Context, string) error          { return nil }
func (f *fakeProjectRepo) List(context.Context, repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	return nil, nil
}
func (f *fakeProjectRepo) Touch(context.Context, string) error {
	f.touched++
	return nil
}

func newTestService(invoker Invoker, projects *fakeProjectRepo, outlines *fakeOutlineRepo, chapters *fakeChapterRepo, mkt *fakeMktRepo) *Service {
	assembler := NewAssembler(&fakeStyleRepo{}, outlines, chapters, mkt, 2000, 3)
	engine := testEngine(invoker)
	return NewService(projects, outlines, chapters, mkt, assembler, engine)
}

func outlineJSON(t *testing.T, n int) string {
	t.Helper()
	items := make([]map[string]string, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, map[string]string{"title": "T", "summary": "S"})
	}
	b, err := json.Marshal(items)
	require.NoError(t, err)
	return string(b)
}

func TestGenerateOutline_ReplacesOutline(t *testing.T) {
	projects := &fakeProjectRepo{project: testProject()}
	outlines := &fakeOutlineRepo{}
	inv := &fakeInvoker{results: []invokeResult{{output: outlineJSON(t, 3)}}}
	svc := newTestService(inv, projects, outlines, &fakeChapterRepo{}, &fakeMktRepo{})

	outline, err := svc.GenerateOutline(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, outline.Len())
	assert.Equal(t, 1, outline.Chapters[0].Index)
	require.NotNil(t, outlines.outline)
	assert.Equal(t, 3, outlines.outline.Len())
	assert.Equal(t, 1, projects.touched)
}

func TestGenerateOutline_ProjectNotFound(t *testing.T) {
	svc := newTestService(&fakeInvoker{results: []invokeResult{{output: "[]"}}},
		&fakeProjectRepo{}, &fakeOutlineRepo{}, &fakeChapterRepo{}, &fakeMktRepo{})

	_, err := svc.GenerateOutline(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}

func TestGenerateOutline_MalformedAfterRemediation(t *testing.T) {
	projects := &fakeProjectRepo{project: testProject()}
	outlines := &fakeOutlineRepo{}
	inv := &fakeInvoker{results: []invokeResult{{output: "not an outline"}}}
	svc := newTestService(inv, projects, outlines, &fakeChapterRepo{}, &fakeMktRepo{})

	_, err := svc.GenerateOutline(context.Background(), "p1")
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeMalformedOutput))
	assert.Nil(t, outlines.outline, "malformed output must not touch the stored outline")
}

func TestGenerateChapter_SavesContentAndBumpsVersion(t *testing.T) {
	projects := &fakeProjectRepo{project: testProject()}
	chapters := &fakeChapterRepo{}
	outlines := &fakeOutlineRepo{outline: testOutline(3)}
	inv := &fakeInvoker{results: []invokeResult{{output: "# Chapter Two\n\nBody text."}}}
	svc := newTestService(inv, projects, outlines, chapters, &fakeMktRepo{})

	chapter, err := svc.GenerateChapter(context.Background(), "p1", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, chapter.Index)
	assert.Equal(t, "# Chapter Two\n\nBody text.", chapter.Content)
	assert.Equal(t, 2, chapter.GenerationVersion)
	require.Len(t, chapters.chapters, 1)
}

func TestGenerateChapter_IndexOutsideOutline(t *testing.T) {
	svc := newTestService(&fakeInvoker{results: []invokeResult{{output: "x"}}},
		&fakeProjectRepo{project: testProject()},
		&fakeOutlineRepo{outline: testOutline(3)}, &fakeChapterRepo{}, &fakeMktRepo{})

	_, err := svc.GenerateChapter(context.Background(), "p1", 12)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeChapterNotFound))
}

func TestGenerateMarketingSlot_WritesSlot(t *testing.T) {
	mkt := &fakeMktRepo{}
	svc := newTestService(&fakeInvoker{results: []invokeResult{{output: "A punchy blurb."}}},
		&fakeProjectRepo{project: testProject()},
		&fakeOutlineRepo{}, &fakeChapterRepo{}, mkt)

	out, err := svc.GenerateMarketingSlot(context.Background(), "p1", entity.SlotMarketingBlurb)
	require.NoError(t, err)
	assert.Equal(t, "A punchy blurb.", out)
	require.NotNil(t, mkt.bundle.MarketingBlurb)
	assert.Equal(t, "A punchy blurb.", *mkt.bundle.MarketingBlurb)
	assert.Nil(t, mkt.bundle.Summary, "other slots stay untouched")
}

func TestGenerateMarketingSlot_UnknownSlot(t *testing.T) {
	svc := newTestService(&fakeInvoker{results: []invokeResult{{output: "x"}}},
		&fakeProjectRepo{project: testProject()},
		&fakeOutlineRepo{}, &fakeChapterRepo{}, &fakeMktRepo{})

	_, err := svc.GenerateMarketingSlot(context.Background(), "p1", entity.MarketingSlot("poster"))
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestGenerateKeywords_MergesAsSet(t *testing.T) {
	bundle := entity.NewMarketingBundle("p1")
	bundle.Keywords = []string{"go", "testing"}
	mkt := &fakeMktRepo{bundle: bundle}
	svc := newTestService(&fakeInvoker{results: []invokeResult{{output: `["testing", "channels", "go"]`}}},
		&fakeProjectRepo{project: testProject()},
		&fakeOutlineRepo{}, &fakeChapterRepo{}, mkt)

	keywords, err := svc.GenerateKeywords(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing", "channels"}, keywords)
	assert.Equal(t, keywords, mkt.bundle.Keywords)
}
