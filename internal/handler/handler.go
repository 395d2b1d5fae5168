// Package handler holds the application route tree mounted under the API base path.
package handler

import (
	"github.com/maxviazov/poster-api/internal/model"
	"github.com/maxviazov/poster-api/internal/openapi"
	"github.com/maxviazov/poster-api/internal/pagination"
)

// Deps are the dependencies of the route tree. DB may be nil.
type Deps struct {
	DB         Pinger
	Info       model.VersionInfo
	Operations OperationLister
}

// Register mounts all routes on r. Paths are relative to the API base path.
func Register(r *openapi.Router, deps Deps) {
	h := NewHealthHandler(deps.DB)
	health := r.Group("/health")
	health.GET("/live", openapi.Operation{
		Summary:  "Liveness probe",
		Tags:     []string{"health"},
		Response: model.HealthStatus{},
	}, h.Liveness)
	health.GET("/ready", openapi.Operation{
		Summary:     "Readiness probe",
		Description: "Pings the database when one is configured. Responds 503 when it is unreachable.",
		Tags:        []string{"health"},
		Response:    model.HealthStatus{},
	}, h.Readiness)

	m := NewMetaHandler(deps.Info, deps.Operations)
	r.GET("/version", openapi.Operation{
		Summary:  "Service version",
		Tags:     []string{"meta"},
		Response: model.VersionInfo{},
	}, m.Version)
	r.GET("/routes", openapi.Operation{
		Summary:  "List documented routes",
		Tags:     []string{"meta"},
		Query:    routesQuery{},
		Pager:    &routesPager,
		Response: pagination.Page[model.RouteInfo]{},
	}, m.Routes)
}
