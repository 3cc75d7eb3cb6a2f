package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

const (
	memorySearchLimit    = 3
	memoryContextPrompts = 2
	persistTimeout       = 10 * time.Second
)

// Pipeline stage names used for logging and metrics.
const (
	StageMemory  = "memory"
	StageEnhance = "enhance"
	StageImage   = "image"
	StageModel   = "model"
)

// PipelineRecorder receives pipeline instrumentation.
type PipelineRecorder interface {
	RecordGeneration(status string)
	RecordStage(stage string, err error, duration time.Duration)
	RecordCacheLookup(hit bool)
	GenerationStarted()
	GenerationFinished()
}

type GenerationOptions struct {
	Timeout       time.Duration
	MaxConcurrent int
	ModelFormat   string
}

// GenerationService runs the text -> image -> 3D pipeline.
type GenerationService struct {
	repo     ports.GenerationRepository
	store    ports.ArtifactStore
	enhancer ports.PromptEnhancer
	cache    ports.PromptCache
	images   ports.ImageGenerator
	models   ports.ModelGenerator
	recorder PipelineRecorder

	slots       *semaphore.Weighted
	timeout     time.Duration
	modelFormat string
	now         func() time.Time
}

// NewGenerationService wires the pipeline. enhancer, cache and recorder may be nil.
func NewGenerationService(
	repo ports.GenerationRepository,
	store ports.ArtifactStore,
	enhancer ports.PromptEnhancer,
	cache ports.PromptCache,
	images ports.ImageGenerator,
	models ports.ModelGenerator,
	recorder PipelineRecorder,
	opts GenerationOptions,
) *GenerationService {
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 1
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Minute
	}
	if opts.ModelFormat == "" {
		opts.ModelFormat = "obj"
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}

	return &GenerationService{
		repo:        repo,
		store:       store,
		enhancer:    enhancer,
		cache:       cache,
		images:      images,
		models:      models,
		recorder:    recorder,
		slots:       semaphore.NewWeighted(int64(opts.MaxConcurrent)),
		timeout:     opts.Timeout,
		modelFormat: strings.ToLower(opts.ModelFormat),
		now:         time.Now,
	}
}

// Generate turns a text prompt into a 3D model. A generation record is
// persisted whether the run succeeds or fails.
func (s *GenerationService) Generate(ctx context.Context, prompt domain.TextPrompt) (*domain.GenerationResult, error) {
	prompt, err := prompt.Normalize()
	if err != nil {
		return nil, err
	}

	if err := s.slots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBusy, err)
	}
	defer s.slots.Release(1)

	s.recorder.GenerationStarted()
	defer s.recorder.GenerationFinished()

	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	gen := &domain.Generation{
		ID:          uuid.New(),
		CreatedAt:   s.now().UTC(),
		UserPrompt:  prompt.String(),
		ModelFormat: s.modelFormat,
	}
	result := &domain.GenerationResult{Generation: gen}
	logger := log.WithField("generation_id", gen.ID.String())

	memoryContext := s.memoryContext(runCtx, prompt.String())

	logger.WithField("prompt", gen.UserPrompt).Info("enhancing prompt")
	gen.EnhancedPrompt = s.enhance(runCtx, gen.UserPrompt, memoryContext)
	gen.Tags = ExtractTags(gen.EnhancedPrompt)

	runErr := s.run(runCtx, gen, result)
	if runErr != nil {
		gen.Status = domain.GenerationStatusFailed
		gen.Error = runErr.Error()
	} else {
		gen.Status = domain.GenerationStatusCompleted
	}

	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
	defer saveCancel()
	saved := true
	if err := s.repo.Create(saveCtx, gen); err != nil {
		saved = false
		logger.WithError(err).Error("save generation failed")
		if runErr == nil {
			return nil, fmt.Errorf("save generation: %w", err)
		}
	}
	s.recorder.RecordGeneration(string(gen.Status))

	if runErr != nil {
		logger.WithError(runErr).Warn("pipeline failed")
		pipeErr := &domain.PipelineError{Err: runErr}
		// Only point callers at records that exist.
		if saved {
			pipeErr.GenerationID = gen.ID.String()
		}
		return nil, pipeErr
	}

	logger.WithFields(log.Fields{
		"image_path": gen.ImagePath,
		"model_path": gen.ModelPath,
	}).Info("pipeline completed")
	return result, nil
}

func (s *GenerationService) run(ctx context.Context, gen *domain.Generation, result *domain.GenerationResult) error {
	logger := log.WithField("generation_id", gen.ID.String())

	logger.Info("generating image")
	start := time.Now()
	imageData, err := s.images.GenerateImage(ctx, gen.EnhancedPrompt)
	if err == nil && len(imageData) == 0 {
		err = domain.ErrNoImageData
	}
	s.recorder.RecordStage(StageImage, err, time.Since(start))
	if err != nil {
		return stageError(domain.ErrImageGeneration, err)
	}

	imagePath, err := s.store.SaveImage(ctx, gen.ID, imageData)
	if err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	gen.ImagePath = imagePath
	result.Image = &domain.Image{
		Path:        imagePath,
		ContentType: domain.DetectImageContentType(imageData),
		Size:        int64(len(imageData)),
		Data:        imageData,
	}

	logger.Info("converting image to 3D model")
	start = time.Now()
	modelData, err := s.models.GenerateModel(ctx, imageData)
	if err == nil && len(modelData) == 0 {
		err = domain.ErrNoModelData
	}
	s.recorder.RecordStage(StageModel, err, time.Since(start))
	if err != nil {
		return stageError(domain.ErrModelGeneration, err)
	}

	format := domain.DetectModelFormat(modelData, s.modelFormat)
	if format != s.modelFormat {
		logger.WithField("format", format).Info("model app returned a different format than configured")
	}

	modelPath, err := s.store.SaveModel(ctx, gen.ID, format, modelData)
	if err != nil {
		return fmt.Errorf("save model: %w", err)
	}
	gen.ModelPath = modelPath
	gen.ModelFormat = format
	result.Model = &domain.Model3D{
		ID:          gen.ID,
		Format:      format,
		ContentType: domain.ModelContentType(format),
		Size:        int64(len(modelData)),
		Path:        modelPath,
		Data:        modelData,
	}
	return nil
}

// memoryContext summarises similar past requests for the enhancer.
func (s *GenerationService) memoryContext(ctx context.Context, prompt string) string {
	start := time.Now()
	hits, err := s.repo.Search(ctx, prompt, memorySearchLimit)
	s.recorder.RecordStage(StageMemory, err, time.Since(start))
	if err != nil {
		log.WithError(err).Warn("memory search failed")
		return ""
	}
	if len(hits) == 0 {
		return ""
	}

	quoted := make([]string, 0, memoryContextPrompts)
	for _, h := range hits {
		if len(quoted) == memoryContextPrompts {
			break
		}
		quoted = append(quoted, fmt.Sprintf("%q", h.UserPrompt))
	}
	return fmt.Sprintf("Similar past requests: [%s]", strings.Join(quoted, ", "))
}

// enhance falls back to the user prompt on any enhancer failure.
func (s *GenerationService) enhance(ctx context.Context, prompt, memoryContext string) string {
	if s.enhancer == nil {
		return prompt
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, prompt, memoryContext)
		if err != nil {
			log.WithError(err).Warn("prompt cache lookup failed")
		} else {
			s.recorder.RecordCacheLookup(ok)
			if ok {
				return cached
			}
		}
	}

	start := time.Now()
	enhanced, err := s.enhancer.Enhance(ctx, prompt, memoryContext)
	enhanced = strings.TrimSpace(enhanced)
	if err == nil && enhanced == "" {
		err = errors.New("empty enhancement")
	}
	s.recorder.RecordStage(StageEnhance, err, time.Since(start))
	if err != nil {
		log.WithError(err).WithField("enhancer", s.enhancer.Name()).Warn("prompt enhancement failed, using original prompt")
		return prompt
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, prompt, memoryContext, enhanced); err != nil {
			log.WithError(err).Warn("prompt cache store failed")
		}
	}
	return enhanced
}

func stageError(stage error, cause error) error {
	if errors.Is(cause, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrGenerationTimeout, cause)
	}
	return fmt.Errorf("%w: %w", stage, cause)
}

type noopRecorder struct{}

func (noopRecorder) RecordGeneration(string)                  {}
func (noopRecorder) RecordStage(string, error, time.Duration) {}
func (noopRecorder) RecordCacheLookup(bool)                   {}
func (noopRecorder) GenerationStarted()                       {}
func (noopRecorder) GenerationFinished()                      {}
