package ports

import "context"

// KServeStatus represents the status of a KServe InferenceService
type KServeStatus struct {
	URL   string
	Ready bool
	Error string
}

// KServeClient resolves model app endpoints from KServe InferenceServices.
type KServeClient interface {
	// GetStatus retrieves current deployment status from Kubernetes
	GetStatus(ctx context.Context, namespace, name string) (*KServeStatus, error)

	// ResolveURL returns the inference URL of a ready InferenceService
	ResolveURL(ctx context.Context, namespace, name string) (string, error)

	// IsAvailable checks if KServe integration is enabled and configured
	IsAvailable() bool
}
