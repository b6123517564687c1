package handlers

import (
	"context"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/soundprediction/graphrag"
)

// Build information - can be set at build time using ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

const serviceName = "graphrag"

// HealthHandler handles health check requests
type HealthHandler struct {
	checker graphrag.HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(checker graphrag.HealthChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

// HealthCheck handles GET /health - basic liveness check
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   Version,
		"build_info": gin.H{
			"git_commit": GitCommit,
			"build_time": BuildTime,
			"go_version": GoVersion,
		},
	})
}

// ReadinessCheck handles GET /ready. Both stores must answer.
func (h *HealthHandler) ReadinessCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := gin.H{}
	response := gin.H{
		"status":    "ready",
		"service":   serviceName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	}

	if h.checker == nil {
		checks["client"] = gin.H{"status": "unhealthy", "error": "client not initialized"}
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	graphOK := probe(ctx, checks, "graph_store", h.checker.CheckGraph)
	vectorOK := probe(ctx, checks, "vector_store", h.checker.CheckVectors)

	if !graphOK || !vectorOK {
		response["status"] = "not_ready"
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}
	c.JSON(http.StatusOK, response)
}

func probe(ctx context.Context, checks gin.H, name string, check func(context.Context) error) bool {
	start := time.Now()
	err := check(ctx)
	status := gin.H{"status": "healthy", "duration": time.Since(start).String()}
	if err != nil {
		status["status"] = "unhealthy"
		status["error"] = err.Error()
	}
	checks[name] = status
	return err == nil
}
