package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookforge-api/internal/application/project"
	"bookforge-api/internal/domain/entity"
	"bookforge-api/internal/domain/repository"
	"bookforge-api/internal/interfaces/http/dto"
)

type fakeProjectRepo struct {
	projects map[string]*entity.Project
	nextID   int
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: make(map[string]*entity.Project)}
}

func (f *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	f.nextID++
	p.ID = "p" + string(rune('0'+f.nextID))
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	return f.projects[id], nil
}

func (f *fakeProjectRepo) Update(_ context.Context, p *entity.Project) error {
	f.projects[p.ID] = p
	return nil
}

func (f *fakeProjectRepo) Delete(_ context.Context, id string) error {
	delete(f.projects, id)
	return nil
}

func (f *fakeProjectRepo) List(_ context.Context, pagination repository.Pagination) (*repository.PagedResult[*entity.Project], error) {
	items := make([]*entity.Project, 0, len(f.projects))
	for _, p := range f.projects {
		items = append(items, p)
	}
	return repository.NewPagedResult(items, int64(len(items)), pagination), nil
}

func (f *fakeProjectRepo) Touch(_ context.Context, id string) error {
	if p, ok := f.projects[id]; ok {
		p.Touch()
	}
	return nil
}

func newProjectRouter(repo *fakeProjectRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewProjectHandler(project.NewService(repo, nil, 0))

	r := gin.New()
	r.POST("/v1/projects", h.CreateProject)
	r.GET("/v1/projects/:pid", h.GetProject)
	r.PUT("/v1/projects/:pid", h.UpdateProject)
	r.DELETE("/v1/projects/:pid", h.DeleteProject)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateProject_Success(t *testing.T) {
	r := newProjectRouter(newFakeProjectRepo())

	w := doJSON(t, r, http.MethodPost, "/v1/projects",
		`{"title":"Go in Practice","topic":"Go","target_audience":"engineers","purpose":"teach"}`)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Data.ID)
	assert.Equal(t, "Go in Practice", resp.Data.Title)
}

func TestCreateProject_MissingTargetAudience(t *testing.T) {
	r := newProjectRouter(newFakeProjectRepo())

	w := doJSON(t, r, http.MethodPost, "/v1/projects",
		`{"title":"T","topic":"Go"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "4001", resp.Error.ErrorCode)
}

func TestCreateProject_InvalidJSON(t *testing.T) {
	r := newProjectRouter(newFakeProjectRepo())

	w := doJSON(t, r, http.MethodPost, "/v1/projects", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProject_NotFound(t *testing.T) {
	r := newProjectRouter(newFakeProjectRepo())

	w := doJSON(t, r, http.MethodGet, "/v1/projects/ghost", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateProject_PartialUpdate(t *testing.T) {
	repo := newFakeProjectRepo()
	r := newProjectRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/v1/projects",
		`{"title":"T","topic":"Go","target_audience":"engineers"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, "/v1/projects/"+created.Data.ID,
		`{"purpose":"new purpose"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var updated dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "new purpose", updated.Data.Purpose)
	assert.Equal(t, "T", updated.Data.Title, "unset fields keep their values")
}

func TestUpdateProject_CannotClearRequiredField(t *testing.T) {
	repo := newFakeProjectRepo()
	r := newProjectRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/v1/projects",
		`{"title":"T","topic":"Go","target_audience":"engineers"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodPut, "/v1/projects/"+created.Data.ID, `{"title":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteProject(t *testing.T) {
	repo := newFakeProjectRepo()
	r := newProjectRouter(repo)

	w := doJSON(t, r, http.MethodPost, "/v1/projects",
		`{"title":"T","topic":"Go","target_audience":"engineers"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	var created dto.Response[*dto.ProjectResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, r, http.MethodDelete, "/v1/projects/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/v1/projects/"+created.Data.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
