package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const probeTimeout = 5 * time.Second

// StatusService probes every external collaborator of the pipeline.
type StatusService struct {
	enhancer  ports.PromptEnhancer
	images    ports.ImageGenerator
	models    ports.ModelGenerator
	repo      ports.GenerationRepository
	store     ports.ArtifactStore
	apiKeySet bool
	now       func() time.Time
}

func NewStatusService(
	enhancer ports.PromptEnhancer,
	images ports.ImageGenerator,
	models ports.ModelGenerator,
	repo ports.GenerationRepository,
	store ports.ArtifactStore,
	apiKeySet bool,
) *StatusService {
	return &StatusService{
		enhancer:  enhancer,
		images:    images,
		models:    models,
		repo:      repo,
		store:     store,
		apiKeySet: apiKeySet,
		now:       time.Now,
	}
}

type probe struct {
	name string
	url  string
	ping func(ctx context.Context) error
}

// Check runs all probes concurrently. A failing probe never fails the check.
func (s *StatusService) Check(ctx context.Context) *domain.SystemStatus {
	probes := []probe{
		{name: "text-to-image", url: s.images.Endpoint(), ping: s.images.Ping},
		{name: "image-to-3d", url: s.models.Endpoint(), ping: s.models.Ping},
		{name: "database", ping: s.repo.Ping},
	}
	if s.enhancer != nil {
		probes = append([]probe{{name: "llm:" + s.enhancer.Name(), ping: s.enhancer.Ping}}, probes...)
	}

	results := make([]domain.ServiceStatus, len(probes))
	g, gctx := errgroup.WithContext(ctx)
	for i, p := range probes {
		i, p := i, p
		g.Go(func() error {
			pctx, cancel := context.WithTimeout(gctx, probeTimeout)
			defer cancel()

			start := time.Now()
			err := p.ping(pctx)
			st := domain.ServiceStatus{
				Name:    p.name,
				URL:     p.url,
				Online:  err == nil,
				Latency: time.Since(start),
			}
			if err != nil {
				st.Error = err.Error()
			}
			results[i] = st
			return nil
		})
	}
	_ = g.Wait()

	return &domain.SystemStatus{
		Services: results,
		Checks: map[string]bool{
			"output_directory": s.store.Available(),
			"model_api_key":    s.apiKeySet,
		},
		CheckedAt: s.now().UTC(),
	}
}
