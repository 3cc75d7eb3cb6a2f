package dto

import (
	"fmt"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
)

// APIBasePath is the route group of the inference API.
const APIBasePath = "/api/v1"

// ============================================================================
// Generation DTOs
// ============================================================================

type GenerateRequest struct {
	Prompt string `json:"prompt" binding:"required"`
}

type ModelResponse struct {
	ID          string `json:"id"`
	Format      string `json:"format"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	DownloadURL string `json:"download_url"`
}

type ImageResponse struct {
	ContentType string `json:"content_type"`
	Size        int64  `json:"size,omitempty"`
	DownloadURL string `json:"download_url"`
}

type GenerationResponse struct {
	ID             string         `json:"id"`
	CreatedAt      time.Time      `json:"created_at"`
	UserPrompt     string         `json:"user_prompt"`
	EnhancedPrompt string         `json:"enhanced_prompt"`
	Tags           []string       `json:"tags"`
	Status         string         `json:"status"`
	Error          string         `json:"error,omitempty"`
	Model          *ModelResponse `json:"model,omitempty"`
	Image          *ImageResponse `json:"image,omitempty"`
}

type ListGenerationsResponse struct {
	Items      []GenerationResponse `json:"items"`
	Total      int                  `json:"total"`
	PageSize   int                  `json:"page_size"`
	NextOffset int                  `json:"next_offset"`
}

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Error        string `json:"error"`
	GenerationID string `json:"generation_id,omitempty"`
}

func ModelDownloadURL(id string) string {
	return fmt.Sprintf("%s/generations/%s/model", APIBasePath, id)
}

func ImageDownloadURL(id string) string {
	return fmt.Sprintf("%s/generations/%s/image", APIBasePath, id)
}

// ToGenerationResponse maps a stored record. Artifact sizes are only known
// for fresh results; see ToGenerationResultResponse.
func ToGenerationResponse(gen *domain.Generation) GenerationResponse {
	id := gen.ID.String()
	resp := GenerationResponse{
		ID:             id,
		CreatedAt:      gen.CreatedAt,
		UserPrompt:     gen.UserPrompt,
		EnhancedPrompt: gen.EnhancedPrompt,
		Tags:           gen.TagList(),
		Status:         string(gen.Status),
		Error:          gen.Error,
	}
	if gen.HasModel() {
		resp.Model = &ModelResponse{
			ID:          id,
			Format:      gen.ModelFormat,
			ContentType: domain.ModelContentType(gen.ModelFormat),
			DownloadURL: ModelDownloadURL(id),
		}
	}
	if gen.HasImage() {
		resp.Image = &ImageResponse{
			ContentType: "image/png",
			DownloadURL: ImageDownloadURL(id),
		}
	}
	return resp
}

func ToGenerationResultResponse(res *domain.GenerationResult) GenerationResponse {
	resp := ToGenerationResponse(res.Generation)
	if res.Model != nil && resp.Model != nil {
		resp.Model.ID = res.Model.ID.String()
		resp.Model.Format = res.Model.Format
		resp.Model.ContentType = res.Model.ContentType
		resp.Model.Size = res.Model.Size
	}
	if res.Image != nil && resp.Image != nil {
		resp.Image.ContentType = res.Image.ContentType
		resp.Image.Size = res.Image.Size
	}
	return resp
}

func ToListGenerationsResponse(gens []*domain.Generation, total, limit, offset int) ListGenerationsResponse {
	items := make([]GenerationResponse, 0, len(gens))
	for _, g := range gens {
		items = append(items, ToGenerationResponse(g))
	}
	return ListGenerationsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	}
}
