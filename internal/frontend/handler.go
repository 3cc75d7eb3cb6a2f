package frontend

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	defaultHistoryLimit = 10
	minHistoryLimit     = 5
	maxHistoryLimit     = 50
	enhancedPreviewLen  = 200
)

var examplePrompts = []string{
	"Glowing dragon on a cliff at sunset",
	"Cyberpunk city skyline at night",
	"Magical forest with floating crystals",
	"Steampunk robot with brass gears",
	"Ethereal jellyfish in deep space",
}

var periodOptions = []periodOption{
	{Value: "all", Label: "All time"},
	{Value: "day", Label: "Last 24 hours"},
	{Value: "week", Label: "Last week"},
	{Value: "month", Label: "Last month"},
}

var troubleshootingTips = []string{
	"Backend not running: start it with `go run ./cmd/server`",
	"Ollama not running: start it with `ollama serve`",
	"Required model not installed: run `ollama pull deepseek-r1:1.5b`",
	"MODEL_API_KEY missing: export it before starting the backend",
	"Network issues: check that the model app endpoints are reachable",
}

type periodOption struct {
	Value string
	Label string
}

type pageData struct {
	Prompt     string
	Examples   []string
	Notice     string
	Warning    string
	Result     *resultView
	Error      *errorView
	History    historyView
	Status     statusView
	APIURL     string
	RenderedAt time.Time
}

type resultView struct {
	Generation      dto.GenerationResponse
	ModelID         string
	ModelFormat     string
	ModelURL        string
	ImageURL        string
	Previewable     bool
	EnhancedPreview string
}

type errorView struct {
	Title        string
	Message      string
	GenerationID string
	Tips         []string
}

type historyView struct {
	Query   string
	Period  string
	Limit   int
	Limits  []int
	Periods []periodOption
	Items   []dto.GenerationResponse
	Total   int
	Err     string
}

type statusView struct {
	Online bool
	Report *dto.StatusResponse
	Err    string
}

// Handler serves the web UI on top of the inference API.
type Handler struct {
	client *Client
	tmpl   *template.Template
	apiURL string
}

func New(client *Client, apiURL string) (*Handler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"truncate":   truncate,
		"formatTime": func(t time.Time) string { return t.Local().Format("2006-01-02 15:04") },
		"join":       strings.Join,
		"upper":      strings.ToUpper,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	return &Handler{
		client: client,
		tmpl:   tmpl,
		apiURL: apiURL,
	}, nil
}

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.Index)
	r.POST("/generate", h.Generate)
	r.POST("/memory/clear", h.ClearMemory)
	r.GET("/artifacts/:id/model", h.proxyArtifact(dto.ModelDownloadURL))
	r.GET("/artifacts/:id/image", h.proxyArtifact(dto.ImageDownloadURL))
}

// Index renders the form, history panel and status sidebar.
func (h *Handler) Index(c *gin.Context) {
	data := h.newPage(c)
	data.Prompt = c.Query("prompt")
	if n := c.Query("cleared"); n != "" {
		data.Notice = "Memory cleared successfully! Removed " + n + " generations."
	}
	h.load(c.Request.Context(), &data)
	h.render(c, http.StatusOK, &data)
}

// Generate runs one prompt through the inference service and renders the result.
func (h *Handler) Generate(c *gin.Context) {
	ctx := c.Request.Context()
	data := h.newPage(c)
	data.Prompt = c.PostForm("prompt")

	if strings.TrimSpace(data.Prompt) == "" {
		data.Warning = "Please enter a description for your 3D model."
		h.load(ctx, &data)
		h.render(c, http.StatusBadRequest, &data)
		return
	}

	if _, err := h.client.Manifest(ctx); err != nil {
		log.WithError(err).Warn("inference service unreachable")
		data.Error = &errorView{
			Title:   "Backend API is not running",
			Message: "Could not reach the inference service at " + h.apiURL + ". Please start the backend first.",
			Tips: []string{
				"Run: `go run ./cmd/server`",
				"Make sure Ollama is running: `ollama serve`",
				"Ensure the DeepSeek model is installed: `ollama pull deepseek-r1:1.5b`",
			},
		}
		h.load(ctx, &data)
		h.render(c, http.StatusServiceUnavailable, &data)
		return
	}

	start := time.Now()
	gen, err := h.client.Generate(ctx, data.Prompt)
	if err != nil {
		status := http.StatusBadGateway
		data.Error = &errorView{
			Title:   "Generation failed",
			Message: err.Error(),
			Tips:    troubleshootingTips,
		}
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			data.Error.Message = apiErr.Message
			data.Error.GenerationID = apiErr.GenerationID
			if apiErr.StatusCode < http.StatusInternalServerError {
				status = apiErr.StatusCode
			}
		}
		log.WithError(err).Warn("generation failed")
		h.load(ctx, &data)
		h.render(c, status, &data)
		return
	}

	log.WithFields(log.Fields{
		"generation_id": gen.ID,
		"duration":      time.Since(start),
	}).Info("generation completed")

	data.Result = newResultView(gen)
	data.Notice = "Generation pipeline completed!"
	h.load(ctx, &data)
	h.render(c, http.StatusOK, &data)
}

// ClearMemory wipes the generation history once the user confirmed.
func (h *Handler) ClearMemory(c *gin.Context) {
	ctx := c.Request.Context()

	confirmed, _ := strconv.ParseBool(c.PostForm("confirm"))
	if !confirmed && c.PostForm("confirm") != "on" {
		data := h.newPage(c)
		data.Warning = "Please tick \"I understand this will delete all saved generations\" to clear memory."
		h.load(ctx, &data)
		h.render(c, http.StatusBadRequest, &data)
		return
	}

	n, err := h.client.ClearMemory(ctx)
	if err != nil {
		data := h.newPage(c)
		data.Error = &errorView{Title: "Error clearing memory", Message: err.Error()}
		h.load(ctx, &data)
		h.render(c, http.StatusBadGateway, &data)
		return
	}

	log.WithField("deleted", n).Info("memory cleared")
	c.Redirect(http.StatusSeeOther, "/?cleared="+strconv.FormatInt(n, 10))
}

func (h *Handler) proxyArtifact(upstreamPath func(id string) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := url.PathEscape(c.Param("id"))

		resp, err := h.client.Forward(c.Request.Context(), http.MethodGet, upstreamPath(id), nil, nil)
		if err != nil {
			log.WithError(err).Warn("artifact proxy failed")
			c.String(http.StatusBadGateway, "inference service unavailable")
			return
		}
		defer resp.Body.Close()

		extra := map[string]string{}
		if v := resp.Header.Get("Content-Disposition"); v != "" {
			extra["Content-Disposition"] = v
		}
		c.DataFromReader(resp.StatusCode, resp.ContentLength, resp.Header.Get("Content-Type"), resp.Body, extra)
	}
}

func (h *Handler) newPage(c *gin.Context) pageData {
	return pageData{
		Examples:   examplePrompts,
		History:    historyFromQuery(c),
		APIURL:     h.apiURL,
		RenderedAt: time.Now(),
	}
}

// load fills history and status. Failures end up on the page, not in the response code.
func (h *Handler) load(ctx context.Context, data *pageData) {
	var g errgroup.Group

	g.Go(func() error {
		list, err := h.client.ListGenerations(ctx, HistoryParams{
			Query:  data.History.Query,
			Period: data.History.Period,
			Limit:  data.History.Limit,
		})
		if err != nil {
			data.History.Err = err.Error()
			return nil
		}
		data.History.Items = list.Items
		data.History.Total = list.Total
		return nil
	})

	g.Go(func() error {
		report, err := h.client.Status(ctx)
		if err != nil {
			data.Status.Err = err.Error()
			return nil
		}
		data.Status.Online = true
		data.Status.Report = report
		return nil
	})

	_ = g.Wait()
}

func (h *Handler) render(c *gin.Context, status int, data *pageData) {
	var buf bytes.Buffer
	if err := h.tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
		log.WithError(err).Error("render page")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}

func historyFromQuery(c *gin.Context) historyView {
	limit, err := strconv.Atoi(c.Query("limit"))
	if err != nil {
		limit = defaultHistoryLimit
	}
	if limit < minHistoryLimit {
		limit = minHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	period := c.DefaultQuery("period", "all")
	valid := false
	for _, p := range periodOptions {
		if p.Value == period {
			valid = true
			break
		}
	}
	if !valid {
		period = "all"
	}

	return historyView{
		Query:   strings.TrimSpace(c.Query("q")),
		Period:  period,
		Limit:   limit,
		Limits:  []int{5, 10, 20, 50},
		Periods: periodOptions,
	}
}

func newResultView(gen *dto.GenerationResponse) *resultView {
	v := &resultView{
		Generation:      *gen,
		ModelID:         gen.ID,
		EnhancedPreview: truncate(enhancedPreviewLen, gen.EnhancedPrompt),
	}
	if gen.Model != nil {
		if gen.Model.ID != "" {
			v.ModelID = gen.Model.ID
		}
		v.ModelFormat = gen.Model.Format
		v.Previewable = domain.SupportedModelFormat(gen.Model.Format)
		v.ModelURL = "/artifacts/" + url.PathEscape(gen.ID) + "/model"
	}
	if gen.Image != nil {
		v.ImageURL = "/artifacts/" + url.PathEscape(gen.ID) + "/image"
	}
	return v
}

func truncate(n int, s string) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
