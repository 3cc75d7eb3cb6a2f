package handlers

import (
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	generationSvc *services.GenerationService
	historySvc    *services.HistoryService
	statusSvc     *services.StatusService
	version       string
}

func New(
	generationSvc *services.GenerationService,
	historySvc *services.HistoryService,
	statusSvc *services.StatusService,
	version string,
) *Handler {
	return &Handler{
		generationSvc: generationSvc,
		historySvc:    historySvc,
		statusSvc:     statusSvc,
		version:       version,
	}
}

// RegisterRoutes mounts the API. generate wraps the create route only, so
// rate limiting does not apply to history reads.
func (h *Handler) RegisterRoutes(r *gin.RouterGroup, generate ...gin.HandlerFunc) {
	// Generations
	r.POST("/generations", append(generate, h.CreateGeneration)...)
	r.GET("/generations", h.ListGenerations)
	r.GET("/generations/:id", h.GetGeneration)
	r.DELETE("/generations", h.ClearGenerations)

	// Artifacts
	r.GET("/generations/:id/model", h.DownloadModel)
	r.GET("/generations/:id/image", h.DownloadImage)

	// Status
	r.GET("/status", h.GetStatus)
}
