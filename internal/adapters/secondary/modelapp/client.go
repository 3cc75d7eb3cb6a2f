package modelapp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const maxResultBytes = 512 << 20

// appClient calls a generative model app: POST {endpoint}/execution with a
// JSON payload, answered by {"result": ...}.
type appClient struct {
	name     string
	endpoint string
	apiKey   string
	userID   string
	client   *http.Client
}

func newAppClient(name, endpoint string, cfg *config.AppsConfig) *appClient {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Minute
	}

	return &appClient{
		name:     name,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   cfg.APIKey,
		userID:   cfg.UserID,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type executeResponse struct {
	Result json.RawMessage `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func (c *appClient) Endpoint() string { return c.endpoint }

func (c *appClient) execute(ctx context.Context, payload interface{}) ([]byte, error) {
	if c.endpoint == "" {
		return nil, domain.ErrAppNotConfigured
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s request: %w", c.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"/execution", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", c.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%s error: status=%d body=%s", c.name, resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var execResp executeResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResultBytes)).Decode(&execResp); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", c.name, err)
	}
	if execResp.Error != "" {
		return nil, fmt.Errorf("%s error: %s", c.name, execResp.Error)
	}

	data, err := c.resultBytes(ctx, execResp.Result)
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"app":      c.name,
		"bytes":    len(data),
		"duration": time.Since(start).String(),
	}).Debug("model app call completed")

	return data, nil
}

// resultBytes turns the app result into raw bytes. String results are padded
// base64 (optionally a data URI), a download URL, or plain text.
func (c *appClient) resultBytes(ctx context.Context, raw json.RawMessage) ([]byte, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		// Non-string results are passed through as JSON.
		return trimmed, nil
	}
	if s == "" {
		return nil, nil
	}

	if strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") {
		return c.download(ctx, s)
	}
	return decodeResult(s), nil
}

func decodeResult(s string) []byte {
	payload := s
	if strings.HasPrefix(payload, "data:") {
		if i := strings.Index(payload, ";base64,"); i >= 0 {
			payload = payload[i+len(";base64,"):]
		}
	}
	if b, err := base64.StdEncoding.DecodeString(payload); err == nil {
		return b
	}
	return []byte(s)
}

func (c *appClient) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create %s download request: %w", c.name, err)
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s download failed: %w", c.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s download: status=%d", c.name, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s download: %w", c.name, err)
	}
	return data, nil
}

func (c *appClient) authorize(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if c.userID != "" {
		req.Header.Set("X-User-ID", c.userID)
	}
}

func (c *appClient) Ping(ctx context.Context) error {
	if c.endpoint == "" {
		return domain.ErrAppNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"/health", nil)
	if err != nil {
		return err
	}
	c.authorize(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%s returned status %d", c.name, resp.StatusCode)
	}
	return nil
}

// ============================================================================
// Text to Image
// ============================================================================

type textToImage struct {
	*appClient
}

// NewImageGenerator creates a client for the text-to-image app at endpoint
func NewImageGenerator(endpoint string, cfg *config.AppsConfig) ports.ImageGenerator {
	return &textToImage{appClient: newAppClient("text-to-image", endpoint, cfg)}
}

func (t *textToImage) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	return t.execute(ctx, map[string]string{"prompt": prompt})
}

// ============================================================================
// Image to 3D
// ============================================================================

type imageTo3D struct {
	*appClient
}

// NewModelGenerator creates a client for the image-to-3D app at endpoint
func NewModelGenerator(endpoint string, cfg *config.AppsConfig) ports.ModelGenerator {
	return &imageTo3D{appClient: newAppClient("image-to-3d", endpoint, cfg)}
}

func (m *imageTo3D) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	return m.execute(ctx, map[string]string{"image": base64.StdEncoding.EncodeToString(image)})
}
