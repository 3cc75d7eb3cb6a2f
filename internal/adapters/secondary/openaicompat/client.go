package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

type chatEnhancer struct {
	client openai.Client
	model  string
}

// NewEnhancer creates a PromptEnhancer that talks to any OpenAI-compatible
// chat completions endpoint (vLLM, Ollama /v1, KServe OpenAI runtime, ...).
func NewEnhancer(cfg *config.EnhancerConfig) ports.PromptEnhancer {
	opts := []option.RequestOption{
		option.WithBaseURL(strings.TrimRight(cfg.OpenAIBaseURL, "/") + "/"),
		option.WithMaxRetries(1),
	}
	if cfg.OpenAIAPIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.OpenAIAPIKey))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(cfg.Timeout))
	}

	return &chatEnhancer{
		client: openai.NewClient(opts...),
		model:  cfg.OpenAIModel,
	}
}

func (e *chatEnhancer) Name() string { return "openai" }

func (e *chatEnhancer) Enhance(ctx context.Context, prompt, memoryContext string) (string, error) {
	completion, err := e.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(e.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(domain.EnhancementInstructions(memoryContext)),
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}

	return domain.CleanEnhancedPrompt(completion.Choices[0].Message.Content), nil
}

func (e *chatEnhancer) Ping(ctx context.Context) error {
	page, err := e.client.Models.List(ctx)
	if err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	for _, m := range page.Data {
		if m.ID == e.model {
			return nil
		}
	}
	return fmt.Errorf("model %q is not served", e.model)
}
