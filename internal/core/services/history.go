package services

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const (
	defaultHistoryLimit = 10
	maxHistoryLimit     = 100
)

// HistoryService exposes the generation memory to callers.
type HistoryService struct {
	repo  ports.GenerationRepository
	store ports.ArtifactStore
	now   func() time.Time
}

func NewHistoryService(repo ports.GenerationRepository, store ports.ArtifactStore) *HistoryService {
	return &HistoryService{repo: repo, store: store, now: time.Now}
}

// HistoryQuery selects generations for listing.
type HistoryQuery struct {
	Query  string
	Period domain.Period
	Limit  int
	Offset int
}

// Normalized applies the default page size and clamps paging bounds.
func (q HistoryQuery) Normalized() HistoryQuery {
	if q.Limit <= 0 {
		q.Limit = defaultHistoryLimit
	}
	if q.Limit > maxHistoryLimit {
		q.Limit = maxHistoryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}

func (s *HistoryService) List(ctx context.Context, q HistoryQuery) ([]*domain.Generation, int, error) {
	q = q.Normalized()
	filter := ports.GenerationFilter{
		Query:  q.Query,
		Since:  q.Period.Since(s.now().UTC()),
		Limit:  q.Limit,
		Offset: q.Offset,
	}
	return s.repo.List(ctx, filter)
}

func (s *HistoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	return s.repo.GetByID(ctx, id)
}

// Count returns the number of stored generations.
func (s *HistoryService) Count(ctx context.Context) (int, error) {
	_, total, err := s.repo.List(ctx, ports.GenerationFilter{Limit: 1})
	return total, err
}

// Clear deletes every generation record. Artifact files stay on disk.
func (s *HistoryService) Clear(ctx context.Context, confirm bool) (int64, error) {
	if !confirm {
		return 0, domain.ErrClearNotConfirmed
	}
	n, err := s.repo.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	log.WithField("deleted", n).Info("generation memory cleared")
	return n, nil
}

// Artifact is an open handle on a stored file.
type Artifact struct {
	Body        io.ReadCloser
	Size        int64
	Name        string
	ContentType string
}

func (s *HistoryService) OpenModel(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	gen, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !gen.HasModel() {
		return nil, domain.ErrArtifactNotFound
	}
	return s.open(ctx, gen.ModelPath, domain.ModelContentType(gen.ModelFormat))
}

func (s *HistoryService) OpenImage(ctx context.Context, id uuid.UUID) (*Artifact, error) {
	gen, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !gen.HasImage() {
		return nil, domain.ErrArtifactNotFound
	}
	return s.open(ctx, gen.ImagePath, "image/png")
}

func (s *HistoryService) open(ctx context.Context, path, contentType string) (*Artifact, error) {
	body, size, err := s.store.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Artifact{
		Body:        body,
		Size:        size,
		Name:        filepath.Base(path),
		ContentType: contentType,
	}, nil
}
