package handlers

import (
	"errors"
	"net/http"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	resp := dto.ErrorResponse{Error: err.Error()}
	var pipelineErr *domain.PipelineError
	if errors.As(err, &pipelineErr) {
		resp.GenerationID = pipelineErr.GenerationID
	}

	switch {
	// Bad request / validation errors
	case errors.Is(err, domain.ErrEmptyPrompt),
		errors.Is(err, domain.ErrPromptTooLong),
		errors.Is(err, domain.ErrInvalidPeriod),
		errors.Is(err, domain.ErrClearNotConfirmed):
		c.JSON(http.StatusBadRequest, resp)

	// Not found errors
	case errors.Is(err, domain.ErrGenerationNotFound),
		errors.Is(err, domain.ErrArtifactNotFound):
		c.JSON(http.StatusNotFound, resp)

	// Capacity errors
	case errors.Is(err, domain.ErrBusy),
		errors.Is(err, domain.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, resp)

	case errors.Is(err, domain.ErrGenerationTimeout):
		c.JSON(http.StatusGatewayTimeout, resp)

	// Upstream model app errors
	case errors.Is(err, domain.ErrImageGeneration),
		errors.Is(err, domain.ErrModelGeneration),
		errors.Is(err, domain.ErrAppNotConfigured):
		c.JSON(http.StatusBadGateway, resp)

	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:        "internal server error",
			GenerationID: resp.GenerationID,
		})
	}
}
