package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// Pinger is any backend that can report its reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthDeps are the pieces the health check probes. Redis and Circuito are
// optional.
type HealthDeps struct {
	Backend  string
	Planilha Pinger
	Redis    *redis.Client
	Circuito func() string
}

// Health returns a JSON health check response.
// Checks backend and Redis connectivity; never exposes credentials or internals.
//
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func Health(deps HealthDeps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		planilhaStatus := "connected"
		if deps.Planilha == nil || deps.Planilha.Ping(ctx) != nil {
			planilhaStatus = "error"
		}

		redisStatus := "disabled"
		if deps.Redis != nil {
			redisStatus = "connected"
			if deps.Redis.Ping(ctx).Err() != nil {
				redisStatus = "error"
			}
		}

		status := http.StatusOK
		if planilhaStatus != "connected" || redisStatus == "error" {
			status = http.StatusServiceUnavailable
		}

		body := gin.H{
			"ok":       status == http.StatusOK,
			"backend":  deps.Backend,
			"planilha": planilhaStatus,
			"redis":    redisStatus,
		}
		if deps.Circuito != nil {
			body["circuito"] = deps.Circuito()
		}
		c.JSON(status, body)
	}
}
