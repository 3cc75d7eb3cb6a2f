package testutil

import (
	"bytes"
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

// MockGenerationRepo is a mock of GenerationRepository.
type MockGenerationRepo struct {
	mock.Mock
}

func (m *MockGenerationRepo) Create(ctx context.Context, gen *domain.Generation) error {
	args := m.Called(ctx, gen)
	return args.Error(0)
}

func (m *MockGenerationRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Generation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Generation), args.Error(1)
}

func (m *MockGenerationRepo) List(ctx context.Context, filter ports.GenerationFilter) ([]*domain.Generation, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Generation), args.Int(1), args.Error(2)
}

func (m *MockGenerationRepo) Search(ctx context.Context, query string, limit int) ([]*domain.Generation, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Generation), args.Error(1)
}

func (m *MockGenerationRepo) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGenerationRepo) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockGenerationRepo) Close() error {
	return nil
}

// MockArtifactStore is a mock of ArtifactStore.
type MockArtifactStore struct {
	mock.Mock
}

func (m *MockArtifactStore) SaveImage(ctx context.Context, id uuid.UUID, data []byte) (string, error) {
	args := m.Called(ctx, id, data)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) SaveModel(ctx context.Context, id uuid.UUID, format string, data []byte) (string, error) {
	args := m.Called(ctx, id, format, data)
	return args.String(0), args.Error(1)
}

func (m *MockArtifactStore) Open(ctx context.Context, path string) (io.ReadCloser, int64, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	switch body := args.Get(0).(type) {
	case []byte:
		return io.NopCloser(bytes.NewReader(body)), int64(len(body)), args.Error(2)
	case io.ReadCloser:
		return body, args.Get(1).(int64), args.Error(2)
	}
	return nil, 0, args.Error(2)
}

func (m *MockArtifactStore) Available() bool {
	args := m.Called()
	return args.Bool(0)
}

// MockPromptEnhancer is a mock of PromptEnhancer.
type MockPromptEnhancer struct {
	mock.Mock
}

func (m *MockPromptEnhancer) Name() string {
	return "mock"
}

func (m *MockPromptEnhancer) Enhance(ctx context.Context, prompt, memoryContext string) (string, error) {
	args := m.Called(ctx, prompt, memoryContext)
	return args.String(0), args.Error(1)
}

func (m *MockPromptEnhancer) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockPromptCache is a mock of PromptCache.
type MockPromptCache struct {
	mock.Mock
}

func (m *MockPromptCache) Get(ctx context.Context, prompt, memoryContext string) (string, bool, error) {
	args := m.Called(ctx, prompt, memoryContext)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockPromptCache) Set(ctx context.Context, prompt, memoryContext, enhanced string) error {
	args := m.Called(ctx, prompt, memoryContext, enhanced)
	return args.Error(0)
}

// MockImageGenerator is a mock of ImageGenerator.
type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	args := m.Called(ctx, prompt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockImageGenerator) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockImageGenerator) Endpoint() string {
	return "http://text-to-image.test"
}

// MockModelGenerator is a mock of ModelGenerator.
type MockModelGenerator struct {
	mock.Mock
}

func (m *MockModelGenerator) GenerateModel(ctx context.Context, image []byte) ([]byte, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockModelGenerator) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockModelGenerator) Endpoint() string {
	return "http://image-to-3d.test"
}
