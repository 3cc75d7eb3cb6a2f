package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
	ports "github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/ports/output"
)

type fakeKServe struct {
	available bool
	urls      map[string]string
	calls     int
}

func (f *fakeKServe) GetStatus(_ context.Context, _, name string) (*ports.KServeStatus, error) {
	return &ports.KServeStatus{URL: f.urls[name], Ready: f.urls[name] != ""}, nil
}

func (f *fakeKServe) ResolveURL(_ context.Context, _, name string) (string, error) {
	f.calls++
	if u, ok := f.urls[name]; ok {
		return u, nil
	}
	return "", errors.Join(domain.ErrInferenceServiceNotFound, errors.New(name))
}

func (f *fakeKServe) IsAvailable() bool { return f.available }

func TestResolveAppURL(t *testing.T) {
	ctx := context.Background()
	urls := map[string]string{"text-to-image": "http://t2i.model-serving.svc"}

	t.Run("resolved", func(t *testing.T) {
		c := &fakeKServe{available: true, urls: urls}
		assert.Equal(t, "http://t2i.model-serving.svc", resolveAppURL(ctx, c, "model-serving", "text-to-image", "http://fallback"))
	})

	t.Run("unknown service falls back", func(t *testing.T) {
		c := &fakeKServe{available: true, urls: urls}
		assert.Equal(t, "http://fallback", resolveAppURL(ctx, c, "model-serving", "image-to-3d", "http://fallback"))
	})

	t.Run("no name skips lookup", func(t *testing.T) {
		c := &fakeKServe{available: true, urls: urls}
		assert.Equal(t, "http://fallback", resolveAppURL(ctx, c, "model-serving", "", "http://fallback"))
		assert.Zero(t, c.calls)
	})

	t.Run("unavailable client skips lookup", func(t *testing.T) {
		c := &fakeKServe{available: false, urls: urls}
		assert.Equal(t, "http://fallback", resolveAppURL(ctx, c, "model-serving", "text-to-image", "http://fallback"))
		assert.Zero(t, c.calls)
	})
}
