package ports

import "context"

// PromptEnhancer expands a user prompt into a detailed description.
type PromptEnhancer interface {
	Name() string
	Enhance(ctx context.Context, prompt, memoryContext string) (string, error)
	Ping(ctx context.Context) error
}

// PromptCache stores enhanced prompts keyed by prompt and memory context.
type PromptCache interface {
	Get(ctx context.Context, prompt, memoryContext string) (string, bool, error)
	Set(ctx context.Context, prompt, memoryContext, enhanced string) error
}

// ImageGenerator is the external text-to-image model.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
	Ping(ctx context.Context) error
	Endpoint() string
}

// ModelGenerator is the external image-to-3D model.
type ModelGenerator interface {
	GenerateModel(ctx context.Context, image []byte) ([]byte, error)
	Ping(ctx context.Context) error
	Endpoint() string
}
