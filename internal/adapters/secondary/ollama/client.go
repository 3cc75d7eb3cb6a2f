package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

type ollamaClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// NewEnhancer creates a PromptEnhancer backed by a local Ollama server
func NewEnhancer(cfg *config.EnhancerConfig) ports.PromptEnhancer {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &ollamaClient{
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		model:   cfg.OllamaModel,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *ollamaClient) Name() string { return "ollama" }

// Ollama API structures
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (c *ollamaClient) Enhance(ctx context.Context, prompt, memoryContext string) (string, error) {
	body := generateRequest{
		Model: c.model,
		Prompt: fmt.Sprintf("System: %s\n\nUser request: %s\n\nEnhanced prompt:",
			domain.EnhancementInstructions(memoryContext), prompt),
		Stream: false,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("ollama error: status=%d body=%s", resp.StatusCode, strings.TrimSpace(string(errBody)))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", fmt.Errorf("decode generate response: %w", err)
	}

	return domain.CleanEnhancedPrompt(genResp.Response), nil
}

// Ping checks the server is up and the configured model has been pulled.
func (c *ollamaClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}

	var tags tagsResponse
	if err := json.NewDecoder(resp.Body).Decode(&tags); err != nil {
		return fmt.Errorf("decode tags response: %w", err)
	}
	for _, m := range tags.Models {
		if m.Name == c.model || strings.TrimSuffix(m.Name, ":latest") == c.model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not pulled", c.model)
}
