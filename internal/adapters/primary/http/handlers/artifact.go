package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) DownloadModel(c *gin.Context) {
	h.serveArtifact(c, h.historySvc.OpenModel)
}

func (h *Handler) DownloadImage(c *gin.Context) {
	h.serveArtifact(c, h.historySvc.OpenImage)
}

func (h *Handler) serveArtifact(c *gin.Context, open func(ctx context.Context, id uuid.UUID) (*services.Artifact, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid generation id"})
		return
	}

	artifact, err := open(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}
	defer artifact.Body.Close()

	log.WithFields(log.Fields{
		"generation_id": id.String(),
		"file":          artifact.Name,
		"bytes":         artifact.Size,
	}).Debug("serving artifact")

	c.DataFromReader(http.StatusOK, artifact.Size, artifact.ContentType, artifact.Body, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, artifact.Name),
	})
}
