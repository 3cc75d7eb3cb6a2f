package handlers

import (
	"net/http"
	"strconv"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/adapters/primary/http/dto"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) CreateGeneration(c *gin.Context) {
	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.ErrEmptyPrompt.Error()})
		return
	}

	result, err := h.generationSvc.Generate(c.Request.Context(), domain.TextPrompt(req.Prompt))
	if err != nil {
		log.WithError(err).Error("generate failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToGenerationResultResponse(result))
}

func (h *Handler) ListGenerations(c *gin.Context) {
	period, err := domain.ParsePeriod(c.Query("period"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	query := services.HistoryQuery{
		Query:  c.Query("q"),
		Period: period,
		Limit:  limit,
		Offset: offset,
	}.Normalized()

	gens, total, err := h.historySvc.List(c.Request.Context(), query)
	if err != nil {
		log.WithError(err).Error("list generations failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListGenerationsResponse(gens, total, query.Limit, query.Offset))
}

func (h *Handler) GetGeneration(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid generation id"})
		return
	}

	gen, err := h.historySvc.Get(c.Request.Context(), id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToGenerationResponse(gen))
}

func (h *Handler) ClearGenerations(c *gin.Context) {
	confirm, _ := strconv.ParseBool(c.Query("confirm"))

	n, err := h.historySvc.Clear(c.Request.Context(), confirm)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.Header("X-Deleted-Count", strconv.FormatInt(n, 10))
	c.Status(http.StatusNoContent)
}
