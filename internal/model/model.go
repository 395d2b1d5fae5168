// Package model contains the DTOs served by the meta endpoints.
package model

// VersionInfo identifies the running service.
type VersionInfo struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version"`
}

// RouteInfo describes one documented route.
type RouteInfo struct {
	Method  string   `json:"method"`
	Path    string   `json:"path"`
	ID      string   `json:"operationId"`
	Summary string   `json:"summary,omitempty"`
	Tags    []string `json:"tags,omitempty"`
}

// HealthStatus is returned by the liveness and readiness probes.
type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database,omitempty"`
	Error    string `json:"error,omitempty"`
}
