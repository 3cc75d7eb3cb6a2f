package domain

import (
	"regexp"
	"strings"
)

const enhancementInstructions = `You are a creative AI assistant that enhances image generation prompts.
Take the user's simple request and expand it into a detailed, vivid description that would
produce stunning visual results. Focus on:
- Visual details (lighting, composition, colors, textures)
- Artistic style and mood
- Technical photography/art terms
- Environmental context

Keep the core idea but make it more descriptive and artistic.`

// EnhancementInstructions returns the system prompt for the enhancer LLM,
// with the memory context appended when present.
func EnhancementInstructions(memoryContext string) string {
	if memoryContext == "" {
		return enhancementInstructions
	}
	return enhancementInstructions + "\n\nContext from previous interactions: " + memoryContext
}

var reasoningBlock = regexp.MustCompile(`(?s)<think>.*?</think>`)

// CleanEnhancedPrompt drops <think> reasoning blocks emitted by reasoning
// models and trims surrounding whitespace.
func CleanEnhancedPrompt(s string) string {
	return strings.TrimSpace(reasoningBlock.ReplaceAllString(s, ""))
}
