package dto

import (
	"sort"
	"time"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/core/domain"
)

// ============================================================================
// Status DTOs
// ============================================================================

type ServiceStatusResponse struct {
	Name      string `json:"name"`
	URL       string `json:"url,omitempty"`
	Online    bool   `json:"online"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

type CheckResponse struct {
	Name string `json:"name"`
	OK   bool   `json:"ok"`
}

type StatusResponse struct {
	Healthy     bool                    `json:"healthy"`
	Services    []ServiceStatusResponse `json:"services"`
	Checks      []CheckResponse         `json:"checks"`
	Generations int                     `json:"generations"`
	CheckedAt   time.Time               `json:"checked_at"`
}

type ManifestResponse struct {
	Name        string   `json:"name"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Endpoints   []string `json:"endpoints"`
}

func ToStatusResponse(st *domain.SystemStatus, generations int) StatusResponse {
	services := make([]ServiceStatusResponse, 0, len(st.Services))
	for _, s := range st.Services {
		services = append(services, ServiceStatusResponse{
			Name:      s.Name,
			URL:       s.URL,
			Online:    s.Online,
			LatencyMs: s.Latency.Milliseconds(),
			Error:     s.Error,
		})
	}

	checks := make([]CheckResponse, 0, len(st.Checks))
	for name, ok := range st.Checks {
		checks = append(checks, CheckResponse{Name: name, OK: ok})
	}
	sort.Slice(checks, func(i, j int) bool { return checks[i].Name < checks[j].Name })

	return StatusResponse{
		Healthy:     st.Healthy(),
		Services:    services,
		Checks:      checks,
		Generations: generations,
		CheckedAt:   st.CheckedAt,
	}
}
