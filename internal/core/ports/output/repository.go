package ports

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
)

type GenerationFilter struct {
	Query  string
	Since  time.Time
	Limit  int
	Offset int
}

// GenerationRepository persists the generation history ("memory").
type GenerationRepository interface {
	Create(ctx context.Context, gen *domain.Generation) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error)
	List(ctx context.Context, filter GenerationFilter) ([]*domain.Generation, int, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Generation, error)
	DeleteAll(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
	Close() error
}

// ArtifactStore keeps generated files on durable storage.
type ArtifactStore interface {
	SaveImage(ctx context.Context, id uuid.UUID, data []byte) (string, error)
	SaveModel(ctx context.Context, id uuid.UUID, format string, data []byte) (string, error)
	Open(ctx context.Context, path string) (io.ReadCloser, int64, error)
	Available() bool
}
