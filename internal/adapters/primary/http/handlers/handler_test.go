package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/services"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testDeps struct {
	repo     *testutil.MockGenerationRepo
	store    *testutil.MockArtifactStore
	enhancer *testutil.MockPromptEnhancer
	images   *testutil.MockImageGenerator
	models   *testutil.MockModelGenerator
}

func setupRouter() (*testDeps, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	d := &testDeps{
		repo:     new(testutil.MockGenerationRepo),
		store:    new(testutil.MockArtifactStore),
		enhancer: new(testutil.MockPromptEnhancer),
		images:   new(testutil.MockImageGenerator),
		models:   new(testutil.MockModelGenerator),
	}

	genSvc := services.NewGenerationService(d.repo, d.store, d.enhancer, nil, d.images, d.models, nil, services.GenerationOptions{
		Timeout:       time.Minute,
		MaxConcurrent: 1,
		ModelFormat:   "obj",
	})
	historySvc := services.NewHistoryService(d.repo, d.store)
	statusSvc := services.NewStatusService(d.enhancer, d.images, d.models, d.repo, d.store, true)

	h := New(genSvc, historySvc, statusSvc, "test")
	r := gin.New()
	r.GET("/manifest", h.Manifest)
	h.RegisterRoutes(r.Group(dto.APIBasePath))

	return d, r
}

func doRequest(r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCreateGeneration(t *testing.T) {
	d, r := setupRouter()
	obj := []byte("v 0 0 0\n")

	d.repo.On("Search", mock.Anything, "a red chair", 3).Return([]*domain.Generation{}, nil)
	d.enhancer.On("Enhance", mock.Anything, "a red chair", "").Return("a lacquered red chair", nil)
	d.images.On("GenerateImage", mock.Anything, "a lacquered red chair").Return([]byte("png"), nil)
	d.store.On("SaveImage", mock.Anything, mock.Anything, []byte("png")).Return("outputs/image.png", nil)
	d.models.On("GenerateModel", mock.Anything, []byte("png")).Return(obj, nil)
	d.store.On("SaveModel", mock.Anything, mock.Anything, "obj", obj).Return("outputs/model.obj", nil)
	d.repo.On("Create", mock.Anything, mock.Anything).Return(nil)

	w := doRequest(r, http.MethodPost, "/api/v1/generations", dto.GenerateRequest{Prompt: "a red chair"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp dto.GenerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "a red chair", resp.UserPrompt)
	assert.Equal(t, "a lacquered red chair", resp.EnhancedPrompt)
	assert.Equal(t, "completed", resp.Status)
	require.NotNil(t, resp.Model)
	assert.Equal(t, resp.ID, resp.Model.ID)
	assert.Equal(t, int64(len(obj)), resp.Model.Size)
	assert.Equal(t, "/api/v1/generations/"+resp.ID+"/model", resp.Model.DownloadURL)
}

func TestCreateGeneration_EmptyPrompt(t *testing.T) {
	d, r := setupRouter()

	w := doRequest(r, http.MethodPost, "/api/v1/generations", dto.GenerateRequest{Prompt: "   "})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(r, http.MethodPost, "/api/v1/generations", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	d.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateGeneration_UpstreamFailure(t *testing.T) {
	d, r := setupRouter()

	d.repo.On("Search", mock.Anything, mock.Anything, 3).Return([]*domain.Generation{}, nil)
	d.enhancer.On("Enhance", mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("ollama down"))
	d.images.On("GenerateImage", mock.Anything, "a castle").Return(nil, errors.New("connection refused"))
	d.repo.On("Create", mock.Anything, mock.MatchedBy(func(g *domain.Generation) bool {
		return g.Status == domain.GenerationStatusFailed
	})).Return(nil)

	w := doRequest(r, http.MethodPost, "/api/v1/generations", dto.GenerateRequest{Prompt: "a castle"})
	assert.Equal(t, http.StatusBadGateway, w.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "image generation failed")
	_, err := uuid.Parse(resp.GenerationID)
	assert.NoError(t, err)
}

func TestListGenerations(t *testing.T) {
	d, r := setupRouter()

	gens := []*domain.Generation{
		{ID: uuid.New(), UserPrompt: "dragon", Status: domain.GenerationStatusCompleted, CreatedAt: time.Now()},
	}
	d.repo.On("List", mock.Anything, mock.MatchedBy(func(f ports.GenerationFilter) bool {
		return f.Query == "dragon" && f.Limit == 5 && f.Offset == 0 && !f.Since.IsZero()
	})).Return(gens, 1, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/generations?q=dragon&period=week&limit=5", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListGenerationsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Total)
	assert.Equal(t, 5, resp.PageSize)
	assert.Equal(t, 1, resp.NextOffset)
	assert.Equal(t, "dragon", resp.Items[0].UserPrompt)
}

func TestListGenerations_InvalidPeriod(t *testing.T) {
	_, r := setupRouter()

	w := doRequest(r, http.MethodGet, "/api/v1/generations?period=decade", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetGeneration(t *testing.T) {
	d, r := setupRouter()
	id := uuid.New()
	missing := uuid.New()

	d.repo.On("GetByID", mock.Anything, id).Return(&domain.Generation{ID: id, UserPrompt: "robot"}, nil)
	d.repo.On("GetByID", mock.Anything, missing).Return(nil, domain.ErrGenerationNotFound)

	w := doRequest(r, http.MethodGet, "/api/v1/generations/"+id.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/generations/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, http.MethodGet, "/api/v1/generations/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClearGenerations(t *testing.T) {
	d, r := setupRouter()

	w := doRequest(r, http.MethodDelete, "/api/v1/generations", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	d.repo.AssertNotCalled(t, "DeleteAll", mock.Anything)

	d.repo.On("DeleteAll", mock.Anything).Return(int64(4), nil)
	w = doRequest(r, http.MethodDelete, "/api/v1/generations?confirm=true", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "4", w.Header().Get("X-Deleted-Count"))
}

func TestDownloadModel(t *testing.T) {
	d, r := setupRouter()
	id := uuid.New()
	obj := []byte("v 1 1 1\n")

	d.repo.On("GetByID", mock.Anything, id).Return(&domain.Generation{
		ID: id, ModelPath: "outputs/model_x.obj", ModelFormat: "obj",
	}, nil)
	d.store.On("Open", mock.Anything, "outputs/model_x.obj").Return(obj, int64(len(obj)), nil)

	w := doRequest(r, http.MethodGet, "/api/v1/generations/"+id.String()+"/model", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "model/obj", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="model_x.obj"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, obj, w.Body.Bytes())
}

func TestDownloadImage_Missing(t *testing.T) {
	d, r := setupRouter()
	id := uuid.New()

	d.repo.On("GetByID", mock.Anything, id).Return(&domain.Generation{ID: id}, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/generations/"+id.String()+"/image", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetStatus(t *testing.T) {
	d, r := setupRouter()

	d.enhancer.On("Ping", mock.Anything).Return(nil)
	d.images.On("Ping", mock.Anything).Return(nil)
	d.models.On("Ping", mock.Anything).Return(errors.New("unreachable"))
	d.repo.On("Ping", mock.Anything).Return(nil)
	d.store.On("Available").Return(true)
	d.repo.On("List", mock.Anything, mock.Anything).Return([]*domain.Generation{}, 12, nil)

	w := doRequest(r, http.MethodGet, "/api/v1/status", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.StatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Healthy)
	assert.Equal(t, 12, resp.Generations)
	require.Len(t, resp.Services, 4)
	assert.Equal(t, "llm:mock", resp.Services[0].Name)
	assert.False(t, resp.Services[2].Online)
	assert.Equal(t, "unreachable", resp.Services[2].Error)
}

func TestManifest(t *testing.T) {
	_, r := setupRouter()

	w := doRequest(r, http.MethodGet, "/manifest", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ManifestResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "test", resp.Version)
	assert.Contains(t, resp.Endpoints, "POST /api/v1/generations")
}

func TestMapDomainError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		err  error
		code int
	}{
		{domain.ErrPromptTooLong, http.StatusBadRequest},
		{domain.ErrArtifactNotFound, http.StatusNotFound},
		{domain.ErrBusy, http.StatusTooManyRequests},
		{&domain.PipelineError{GenerationID: "g", Err: domain.ErrGenerationTimeout}, http.StatusGatewayTimeout},
		{&domain.PipelineError{GenerationID: "g", Err: domain.ErrModelGeneration}, http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		mapDomainError(c, tt.err)
		assert.Equal(t, tt.code, w.Code, tt.err.Error())
	}
}
