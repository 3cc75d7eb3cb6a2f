package frontend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
)

// stubAPI imitates the inference service.
type stubAPI struct {
	mu          sync.Mutex
	prompts     []string
	clearCalls  int
	listQuery   url.Values
	generateErr *dto.ErrorResponse
	generateSC  int
	manifestOff bool
}

func (s *stubAPI) router() *gin.Engine {
	r := gin.New()
	r.GET("/manifest", func(c *gin.Context) {
		if s.manifestOff {
			c.Status(http.StatusServiceUnavailable)
			return
		}
		c.JSON(http.StatusOK, dto.ManifestResponse{Name: "text-to-3d", Version: "test"})
	})
	r.POST("/api/v1/generations", func(c *gin.Context) {
		var req dto.GenerateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
			return
		}
		s.mu.Lock()
		s.prompts = append(s.prompts, req.Prompt)
		s.mu.Unlock()

		if s.generateErr != nil {
			c.JSON(s.generateSC, s.generateErr)
			return
		}
		c.JSON(http.StatusCreated, dto.GenerationResponse{
			ID:             "42",
			UserPrompt:     req.Prompt,
			EnhancedPrompt: "A photorealistic " + req.Prompt + " " + strings.Repeat("detailed ", 40),
			Tags:           []string{"chair", "photorealistic"},
			Status:         "completed",
			Model:          &dto.ModelResponse{ID: "42", Format: "obj", DownloadURL: dto.ModelDownloadURL("42")},
			Image:          &dto.ImageResponse{ContentType: "image/png", DownloadURL: dto.ImageDownloadURL("42")},
		})
	})
	r.GET("/api/v1/generations", func(c *gin.Context) {
		s.mu.Lock()
		s.listQuery = c.Request.URL.Query()
		s.mu.Unlock()
		c.JSON(http.StatusOK, dto.ListGenerationsResponse{
			Items: []dto.GenerationResponse{{
				ID:         "7",
				CreatedAt:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
				UserPrompt: "Steampunk robot with brass gears",
				Status:     "completed",
			}},
			Total:    1,
			PageSize: 10,
		})
	})
	r.DELETE("/api/v1/generations", func(c *gin.Context) {
		if c.Query("confirm") != "true" {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "confirm required"})
			return
		}
		s.mu.Lock()
		s.clearCalls++
		s.mu.Unlock()
		c.Header("X-Deleted-Count", "3")
		c.Status(http.StatusNoContent)
	})
	r.GET("/api/v1/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.StatusResponse{
			Healthy:     true,
			Services:    []dto.ServiceStatusResponse{{Name: "ollama", Online: true, LatencyMs: 12}},
			Generations: 17,
		})
	})
	r.GET("/api/v1/generations/:id/model", func(c *gin.Context) {
		if c.Param("id") != "42" {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "artifact not found"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="model.obj"`)
		c.Data(http.StatusOK, "model/obj", []byte("v 0 0 0\n"))
	})
	return r
}

func setupFrontend(t *testing.T, api *stubAPI) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(api.router())
	t.Cleanup(srv.Close)

	h, err := New(NewClient(srv.URL, 5*time.Second), srv.URL)
	require.NoError(t, err)

	r := gin.New()
	h.RegisterRoutes(r)
	return r
}

func postForm(r http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerate_RendersArtifactFromService(t *testing.T) {
	api := &stubAPI{}
	r := setupFrontend(t, api)

	w := postForm(r, "/generate", url.Values{"prompt": {"a red chair"}})

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `data-model-id="42"`)
	assert.Contains(t, body, "<code>42</code>")
	assert.Contains(t, body, "/artifacts/42/model")
	assert.Contains(t, body, "/artifacts/42/image")
	assert.Contains(t, body, "a red chair")
	assert.Contains(t, body, "Generation pipeline completed!")
	assert.Equal(t, []string{"a red chair"}, api.prompts)
}

func TestGenerate_TruncatesEnhancedPrompt(t *testing.T) {
	r := setupFrontend(t, &stubAPI{})

	w := postForm(r, "/generate", url.Values{"prompt": {"a red chair"}})

	require.Equal(t, http.StatusOK, w.Code)
	preview := truncate(enhancedPreviewLen, "A photorealistic a red chair "+strings.Repeat("detailed ", 40))
	assert.True(t, strings.HasSuffix(preview, "..."))
	assert.Contains(t, w.Body.String(), preview)
}

func TestGenerate_EmptyPromptNotSent(t *testing.T) {
	api := &stubAPI{}
	r := setupFrontend(t, api)

	w := postForm(r, "/generate", url.Values{"prompt": {"   "}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Please enter a description")
	assert.Empty(t, api.prompts)
}

func TestGenerate_BackendDown(t *testing.T) {
	api := &stubAPI{manifestOff: true}
	r := setupFrontend(t, api)

	w := postForm(r, "/generate", url.Values{"prompt": {"a red chair"}})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "Backend API is not running")
	assert.Empty(t, api.prompts)
}

func TestGenerate_UpstreamFailureShowsTroubleshooting(t *testing.T) {
	api := &stubAPI{
		generateSC:  http.StatusBadGateway,
		generateErr: &dto.ErrorResponse{Error: "image generation failed", GenerationID: "abc-123"},
	}
	r := setupFrontend(t, api)

	w := postForm(r, "/generate", url.Values{"prompt": {"a red chair"}})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Generation failed")
	assert.Contains(t, body, "image generation failed")
	assert.Contains(t, body, "abc-123")
	assert.Contains(t, body, "ollama serve")
	assert.Contains(t, body, "MODEL_API_KEY")
}

func TestIndex_RendersHistoryAndStatus(t *testing.T) {
	api := &stubAPI{}
	r := setupFrontend(t, api)

	req := httptest.NewRequest(http.MethodGet, "/?q=robot&period=week&limit=20&prompt=Cyberpunk", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Steampunk robot with brass gears")
	assert.Contains(t, body, "Showing 1 of 1 generations")
	assert.Contains(t, body, "Backend online")
	assert.Contains(t, body, "17")
	assert.Contains(t, body, ">Cyberpunk</textarea>")
	assert.Equal(t, "robot", api.listQuery.Get("q"))
	assert.Equal(t, "week", api.listQuery.Get("period"))
	assert.Equal(t, "20", api.listQuery.Get("limit"))
}

func TestIndex_ClampsHistoryParams(t *testing.T) {
	api := &stubAPI{}
	r := setupFrontend(t, api)

	req := httptest.NewRequest(http.MethodGet, "/?period=decade&limit=500", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "all", api.listQuery.Get("period"))
	assert.Equal(t, "50", api.listQuery.Get("limit"))
}

func TestClearMemory(t *testing.T) {
	t.Run("requires confirmation", func(t *testing.T) {
		api := &stubAPI{}
		r := setupFrontend(t, api)

		w := postForm(r, "/memory/clear", url.Values{})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "I understand this will delete all saved generations")
		assert.Zero(t, api.clearCalls)
	})

	t.Run("confirmed", func(t *testing.T) {
		api := &stubAPI{}
		r := setupFrontend(t, api)

		w := postForm(r, "/memory/clear", url.Values{"confirm": {"true"}})

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/?cleared=3", w.Header().Get("Location"))
		assert.Equal(t, 1, api.clearCalls)
	})
}

func TestProxyArtifact(t *testing.T) {
	r := setupFrontend(t, &stubAPI{})

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/artifacts/42/model", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "v 0 0 0\n", w.Body.String())
		assert.Equal(t, "model/obj", w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), "model.obj")
	})

	t.Run("missing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/artifacts/9/model", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestClient_APIError(t *testing.T) {
	api := &stubAPI{
		generateSC:  http.StatusBadRequest,
		generateErr: &dto.ErrorResponse{Error: "prompt must not be empty"},
	}
	srv := httptest.NewServer(api.router())
	defer srv.Close()

	_, err := NewClient(srv.URL+"/", time.Second).Generate(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "prompt must not be empty", apiErr.Message)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate(10, "short"))
	assert.Equal(t, "abc...", truncate(3, "abcdef"))
	assert.Equal(t, "héé...", truncate(3, "héééé"))
}

func TestNewResultView(t *testing.T) {
	v := newResultView(&dto.GenerationResponse{
		ID:    "abc",
		Model: &dto.ModelResponse{Format: "fbx"},
	})

	assert.Equal(t, "abc", v.ModelID)
	assert.Equal(t, "/artifacts/abc/model", v.ModelURL)
	assert.False(t, v.Previewable)
	assert.Empty(t, v.ImageURL)
}

func TestIndex_PromptFormHasClearControl(t *testing.T) {
	r := setupFrontend(t, &stubAPI{})

	req := httptest.NewRequest(http.MethodGet, "/?prompt=Cyberpunk", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `<button type="submit">Generate</button>`)
	assert.Contains(t, body, `id="clear-prompt"`)
	assert.Contains(t, body, "this.form.elements.prompt.value = ''")
}
