package marketing

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

func newTestService() (*Service, *fakeProjectRepo, *fakeMktRepo) {
	projectRepo := &fakeProjectRepo{project: &entity.Project{ID: "p1", Title: "Go in Practice"}}
	mktRepo := &fakeMktRepo{}
	return NewService(projectRepo, mktRepo), projectRepo, mktRepo
}

func TestEditSlot_WritesValue(t *testing.T) {
	svc, projectRepo, mktRepo := newTestService()

	err := svc.EditSlot(context.Background(), "p1", entity.SlotAuthorBio, "An author.")
	require.NoError(t, err)

	got := mktRepo.bundle.Slot(entity.SlotAuthorBio)
	require.NotNil(t, got)
	assert.Equal(t, "An author.", *got)
	assert.Equal(t, 1, projectRepo.touched)
}

func TestEditSlot_UnknownSlot(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.EditSlot(context.Background(), "p1", "keywords", "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeInvalidParam))
}

func TestEditSlot_ProjectNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	err := svc.EditSlot(context.Background(), "ghost", entity.SlotSummary, "x")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}

func TestSetKeywords_DeduplicatesInput(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.SetKeywords(context.Background(), "p1", []string{"go", "testing", "go"})
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "testing"}, got)
}

func TestGetKeywords_EmptyWhenNeverSet(t *testing.T) {
	svc, _, _ := newTestService()

	got, err := svc.GetKeywords(context.Background(), "p1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExportBundle_RendersAllSections(t *testing.T) {
	svc, _, mktRepo := newTestService()
	mktRepo.bundle = entity.NewMarketingBundle("p1")
	mktRepo.bundle.SetSlot(entity.SlotSummary, "A book summary.")
	mktRepo.bundle.SetSlot(entity.SlotMarketingBlurb, "Buy it.")

	doc, err := svc.ExportBundle(context.Background(), "p1")
	require.NoError(t, err)

	assert.Contains(t, doc, `# Marketing Content for "Go in Practice"`)
	assert.Contains(t, doc, "## Book Summary\nA book summary.\n")
	assert.Contains(t, doc, "## Marketing Blurb\nBuy it.\n")
	// 未生成的槽位渲染为空段落而非缺失
	assert.Contains(t, doc, "## Author Bio\n\n")
	assert.Contains(t, doc, "## Chapter Summaries\n\n")
}

func TestExportBundle_ProjectNotFound(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ExportBundle(context.Background(), "ghost")
	assert.True(t, apperrors.HasCode(err, apperrors.CodeProjectNotFound))
}
