package handlers

import (
	"net/http"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) GetStatus(c *gin.Context) {
	st := h.statusSvc.Check(c.Request.Context())

	count, err := h.historySvc.Count(c.Request.Context())
	if err != nil {
		log.WithError(err).Warn("count generations failed")
	}

	c.JSON(http.StatusOK, dto.ToStatusResponse(st, count))
}

// Manifest describes the service; the front-end uses it as a reachability check.
func (h *Handler) Manifest(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ManifestResponse{
		Name:        "text-to-3d",
		Version:     h.version,
		Description: "Turns a text prompt into an image and a 3D model",
		Endpoints: []string{
			"POST " + dto.APIBasePath + "/generations",
			"GET " + dto.APIBasePath + "/generations",
			"GET " + dto.APIBasePath + "/generations/:id",
			"GET " + dto.APIBasePath + "/generations/:id/model",
			"GET " + dto.APIBasePath + "/generations/:id/image",
			"DELETE " + dto.APIBasePath + "/generations",
			"GET " + dto.APIBasePath + "/status",
		},
	})
}
