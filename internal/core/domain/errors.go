package domain

import "errors"

// ============================================================================
// Prompt Errors
// ============================================================================

var (
	ErrEmptyPrompt   = errors.New("prompt is required")
	ErrPromptTooLong = errors.New("prompt exceeds maximum length")
)

// ============================================================================
// Pipeline Errors
// ============================================================================

// Upstream stage errors
var (
	ErrImageGeneration  = errors.New("image generation failed")
	ErrModelGeneration  = errors.New("3D model generation failed")
	ErrNoImageData      = errors.New("no image data received")
	ErrNoModelData      = errors.New("no 3D model data received")
	ErrAppNotConfigured = errors.New("model app endpoint is not configured")
)

// Resource errors
var (
	ErrBusy              = errors.New("generation pipeline is busy")
	ErrGenerationTimeout = errors.New("generation timed out")
	ErrRateLimited       = errors.New("too many requests")
)

// ============================================================================
// History Errors
// ============================================================================

var (
	ErrGenerationNotFound = errors.New("generation not found")
	ErrArtifactNotFound   = errors.New("artifact not found")
	ErrInvalidPeriod      = errors.New("period must be one of all, day, week, month")
	ErrClearNotConfirmed  = errors.New("clearing memory requires confirm=true")
)

// ============================================================================
// Discovery Errors
// ============================================================================

var (
	ErrInferenceServiceNotFound = errors.New("inference service not found")
	ErrInferenceServiceNotReady = errors.New("inference service is not ready")
)

// PipelineError carries the id of the persisted failed generation.
type PipelineError struct {
	GenerationID string
	Err          error
}

func (e *PipelineError) Error() string {
	return e.Err.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}
