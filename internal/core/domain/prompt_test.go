package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhancementInstructions(t *testing.T) {
	assert.NotContains(t, EnhancementInstructions(""), "Context from previous interactions")
	assert.True(t, len(EnhancementInstructions("")) > 0)

	withCtx := EnhancementInstructions(`Similar past requests: ["x"]`)
	assert.Contains(t, withCtx, "\n\nContext from previous interactions: Similar past requests: [\"x\"]")
}

func TestCleanEnhancedPrompt(t *testing.T) {
	assert.Equal(t, "a castle", CleanEnhancedPrompt("  a castle \n"))
	assert.Equal(t, "a castle", CleanEnhancedPrompt("<think>\nmulti\nline\n</think>a castle"))
	assert.Equal(t, "", CleanEnhancedPrompt("<think>only thoughts</think>"))
}
