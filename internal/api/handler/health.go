package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

const readinessTimeout = 3 * time.Second

// HealthHandler serves the liveness probe. It answers as soon as the process
// can serve HTTP at all, no dependency checks involved.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// HealthDependenciesHandler serves the readiness probe: the service is ready
// only when both its backing stores answer a ping.
type HealthDependenciesHandler struct {
	checks []dependencyCheck
}

type dependencyCheck struct {
	name string
	ping func(ctx context.Context) error
}

func NewHealthDependenciesHandler(db *mongo.Database, rdb *redis.Client) *HealthDependenciesHandler {
	return &HealthDependenciesHandler{
		checks: []dependencyCheck{
			{name: "mongodb", ping: func(ctx context.Context) error {
				return db.Client().Ping(ctx, nil)
			}},
			{name: "redis", ping: func(ctx context.Context) error {
				return rdb.Ping(ctx).Err()
			}},
		},
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *HealthDependenciesHandler) Readiness(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), readinessTimeout)
	defer cancel()

	deps := make(map[string]dependencyStatus, len(h.checks))
	ready := true

	for _, check := range h.checks {
		if err := check.ping(ctx); err != nil {
			deps[check.name] = dependencyStatus{Status: "unhealthy", Error: err.Error()}
			ready = false
			continue
		}
		deps[check.name] = dependencyStatus{Status: "ok"}
	}

	resp := readinessResponse{Status: "ok", Dependencies: deps}
	if !ready {
		resp.Status = "degraded"
		return c.JSON(http.StatusServiceUnavailable, resp)
	}
	return c.JSON(http.StatusOK, resp)
}
