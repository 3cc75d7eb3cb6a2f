package frontend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
)

const probeTimeout = 5 * time.Second

// Client talks to the inference service API.
type Client struct {
	httpClient  *http.Client
	upstreamURL string
}

func NewClient(upstreamURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		upstreamURL: strings.TrimRight(upstreamURL, "/"),
	}
}

// APIError is a non-2xx answer from the inference service.
type APIError struct {
	StatusCode   int
	Message      string
	GenerationID string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("inference service returned %d: %s", e.StatusCode, e.Message)
}

// HistoryParams filters the history listing.
type HistoryParams struct {
	Query  string
	Period string
	Limit  int
}

// Manifest doubles as the reachability check run before each generation.
func (c *Client) Manifest(ctx context.Context) (*dto.ManifestResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	var m dto.ManifestResponse
	if err := c.doJSON(ctx, http.MethodGet, "/manifest", nil, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) (*dto.GenerationResponse, error) {
	var resp dto.GenerationResponse
	err := c.doJSON(ctx, http.MethodPost, dto.APIBasePath+"/generations", dto.GenerateRequest{Prompt: prompt}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ListGenerations(ctx context.Context, p HistoryParams) (*dto.ListGenerationsResponse, error) {
	q := url.Values{}
	if p.Query != "" {
		q.Set("q", p.Query)
	}
	if p.Period != "" {
		q.Set("period", p.Period)
	}
	if p.Limit > 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}

	path := dto.APIBasePath + "/generations"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var resp dto.ListGenerationsResponse
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Status(ctx context.Context) (*dto.StatusResponse, error) {
	var resp dto.StatusResponse
	if err := c.doJSON(ctx, http.MethodGet, dto.APIBasePath+"/status", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ClearMemory deletes every stored generation and returns how many went.
func (c *Client) ClearMemory(ctx context.Context) (int64, error) {
	resp, err := c.Forward(ctx, http.MethodDelete, dto.APIBasePath+"/generations?confirm=true", nil, nil)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return 0, decodeAPIError(resp)
	}
	n, _ := strconv.ParseInt(resp.Header.Get("X-Deleted-Count"), 10, 64)
	return n, nil
}

// Forward proxies a request to the inference service and returns the response.
func (c *Client) Forward(ctx context.Context, method, path string, body io.Reader, headers http.Header) (*http.Response, error) {
	target := fmt.Sprintf("%s%s", c.upstreamURL, path)

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create upstream request: %w", err)
	}

	// Copy headers
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	log.WithFields(log.Fields{
		"method": method,
		"url":    target,
	}).Debug("forwarding request to inference service")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request: %w", err)
	}

	return resp, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	headers := http.Header{"Accept": []string{"application/json"}}
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
		headers.Set("Content-Type", "application/json")
	}

	resp, err := c.Forward(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body dto.ErrorResponse
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.GenerationID = body.GenerationID
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
