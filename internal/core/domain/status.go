package domain

import "time"

// ServiceStatus is the probe result for one pipeline dependency.
type ServiceStatus struct {
	Name    string        `json:"name"`
	URL     string        `json:"url,omitempty"`
	Online  bool          `json:"online"`
	Latency time.Duration `json:"latency"`
	Error   string        `json:"error,omitempty"`
}

// SystemStatus aggregates dependency probes and local checks.
type SystemStatus struct {
	Services  []ServiceStatus `json:"services"`
	Checks    map[string]bool `json:"checks"`
	CheckedAt time.Time       `json:"checked_at"`
}

// Healthy reports whether every service and check passed.
func (s *SystemStatus) Healthy() bool {
	for _, svc := range s.Services {
		if !svc.Online {
			return false
		}
	}
	for _, ok := range s.Checks {
		if !ok {
			return false
		}
	}
	return true
}
