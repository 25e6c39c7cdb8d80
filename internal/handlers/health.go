package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the datastore is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthCheck(store Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, database, code := "ok", "ok", http.StatusOK

		if err := store.Ping(pingCtx); err != nil {
			status, database, code = "degraded", err.Error(), http.StatusServiceUnavailable
		}

		c.JSON(code, gin.H{
			"status":    status,
			"database":  database,
			"message":   "tasksync is running",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
