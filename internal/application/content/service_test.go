package content

import (
	"context"
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

func (f *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error { return nil }

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	if f.project != nil && f.project.ID == id {
		return f.project, nil
	}
	return nil, nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p *entity.Project) error { return nil }
func (f *fakeProjectRepo) Delete(_ context.Context, id string) error         { return nil }

func (f *fakeProjectRepo) List(_ context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	return repository.NewPagedResult([]*entity.Project{}, 0, pagination), nil
}

func (f *fakeProjectRepo) Touch(_ context.Context, id string) error {
	f.touched++
	return nil
}

type fakeOutlineRepo struct {
	outline  *entity.Outline
	replaced int
}

func (f *fakeOutlineRepo) Replace(_ context.Context, o *entity.Outline) error {
	f.outline = o
	f.replaced++
	return nil
}

func (f *fakeOutlineRepo) GetByProject(_ context.Context, projectID string) (*entity.Outline, error) {
	if f.outline != nil && f.outline.ProjectID == projectID {
		return f.outline, nil
	}
	return nil, nil
}

type fakeChapterRepo struct {
	chapters map[int]*entity.Chapter
}

func newFakeChapterRepo() *fakeChapterRepo {
	return &fakeChapterRepo{chapters: make(map[int]*entity.Chapter)}
}

func (f *fakeChapterRepo) SaveContent(_ context.Context, ch *entity.Chapter) error {
	f.chapters[ch.Index] = ch
	return nil
}

func (f *fakeChapterRepo) GetByIndex(_ context.Context, projectID string, index int) (*entity.Chapter, error) {
	return f.chapters[index], nil
}

func (f *fakeChapterRepo) ListByProject(_ context.Context, projectID string) ([]*entity.Chapter, error) {
	out := make([]*entity.Chapter, 0, len(f.chapters))
	for _, ch := range f.chapters {
		out = append(out, ch)
	}
	return out, nil
}

func (f *fakeChapterRepo) ContentIndices(_ context.Context, projectID string) (map[int]struct{}, error) {
	indices := make(map[int]struct{})
	for idx, ch := range f.chapters {
		if ch.HasContent() {
			indices[idx] = struct{}{}
		}
	}
	return indices, nil
}

func newTestService() (*Service, *fakeProjectRepo, *fakeOutlineRepo, *fakeChapterRepo) {
	projectRepo := &fakeProjectRepo{project: &entity.Project{ID: "p1", Title: "Go in Practice"}}
	outlineRepo := &fakeOutlineRepo{}
	chapterRepo := newFakeChapterRepo()
	return NewService(projectRepo, outlineRepo, chapterRepo), projectRepo, outlineRepo, chapterRepo
}

func TestReplaceOutline_Success(t *testing.T) {
	svc, projectRepo, outlineRepo, _ := newTestService()

	stubs := []entity.ChapterStub{
		{Index: 1, Title: "Intro", Summary: "a"},
		{Index: 2, Title: "Channels", Summary: "b"},
	}
	outline, err := svc.ReplaceOutline(context.Background(), "p1", stubs)
	require.NoError(t, err)

	assert.Equal(t, 2, outline.Len())
	assert.Equal(t, 1, outlineRepo.replaced)
	assert.Equal(t, 1, projectRepo.touched)
}

func TestReplaceOutline_RejectsGappedIndices(t *testing.T) {
	svc, _, outlineRepo, _ := newTestService()

	_, err := svc.ReplaceOutline(context.Background(), "p1", []entity.ChapterStub{
		{Index: 1, Title: "Intro"},
		{Index: 3, Title: "Channels"},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
	assert.Zero(t, outlineRepo.replaced)
}

func TestReplaceOutline_RejectsEmptyTitle(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ReplaceOutline(context.Background(), "p1", []entity.ChapterStub{
		{Index: 1, Title: "   "},
	})
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestReplaceOutline_RejectsEmptyOutline(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ReplaceOutline(context.Background(), "p1", nil)
	require.Error(t, err)
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}

func TestReplaceOutline_ProjectNotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.ReplaceOutline(context.Background(), "ghost", []entity.ChapterStub{
		{Index: 1, Title: "Intro"},
	})
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}

func TestGetOutline_NotFound(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.GetOutline(context.Background(), "p1")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeOutlineNotFound))
}

func TestSaveChapter_BumpsVersion(t *testing.T) {
	svc, _, outlineRepo, chapterRepo := newTestService()
	outlineRepo.outline = entity.NewOutline("p1", []entity.ChapterStub{
		{Index: 1, Title: "Intro", Summary: "a"},
	})

	ch, err := svc.SaveChapter(context.Background(), "p1", 1, "first draft")
	require.NoError(t, err)
	assert.Equal(t, 2, ch.GenerationVersion)
	assert.Equal(t, "first draft", chapterRepo.chapters[1].Content)
}

func TestSaveChapter_IndexOutsideOutline(t *testing.T) {
	svc, _, outlineRepo, _ := newTestService()
	outlineRepo.outline = entity.NewOutline("p1", []entity.ChapterStub{
		{Index: 1, Title: "Intro", Summary: "a"},
	})

	_, err := svc.SaveChapter(context.Background(), "p1", 5, "text")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeChapterNotFound))
}

func TestSaveChapter_RejectsEmptyContent(t *testing.T) {
	svc, _, _, _ := newTestService()

	_, err := svc.SaveChapter(context.Background(), "p1", 1, "   ")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeValidationFailed))
}
