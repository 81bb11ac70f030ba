package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Pings the key-value store and reports the directory index state",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput answers 503 when the store is unreachable.
type HealthOutput struct {
	Status int
	Body   HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	kvHealth := s.checkStore(ctx)
	searchHealth := s.checkSearchIndex()

	overall := "healthy"
	status := http.StatusOK
	switch {
	case kvHealth.Status != "healthy":
		overall = "unhealthy"
		status = http.StatusServiceUnavailable
	case searchHealth.Status != "healthy":
		overall = "degraded"
	}

	return &HealthOutput{
		Status: status,
		Body: HealthResponse{
			Status: overall,
			Components: map[string]ComponentHealth{
				"kv":     kvHealth,
				"search": searchHealth,
			},
		},
	}, nil
}

func (s *Server) checkStore(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: "unhealthy", Message: "store not configured"}
	}

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := s.store.Ping(ctx)
	latency := time.Since(start)
	if err != nil {
		s.logger.Warn("health check: store ping failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Latency: latency.String(), Message: "store ping failed"}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

// checkSearchIndex reports the directory as degraded, never unhealthy:
// tenant sites are served without it.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.services.Libraries == nil {
		return ComponentHealth{Status: "degraded", Message: "library service not configured"}
	}
	count, err := s.services.Libraries.IndexedLibraries()
	if err != nil {
		return ComponentHealth{Status: "degraded", Message: "search index unavailable"}
	}
	return ComponentHealth{Status: "healthy", Message: strconv.FormatUint(count, 10) + " libraries indexed"}
}
