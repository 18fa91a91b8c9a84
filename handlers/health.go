package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ReadinessProbe reports whether a named dependency is usable.
type ReadinessProbe func() bool

// RegisterHealth registers the liveness and readiness endpoints. Probes map
// dependency names to checks; readiness fails when any probe returns false.
func RegisterHealth(r *gin.Engine, startTime time.Time, probes map[string]ReadinessProbe) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "susradar-server"})
	})

	r.GET("/ready", func(c *gin.Context) {
		ready := true
		deps := map[string]bool{}
		for name, probe := range probes {
			ok := probe()
			deps[name] = ok
			if !ok {
				ready = false
			}
		}
		status := http.StatusOK
		state := "ready"
		if !ready {
			status = http.StatusServiceUnavailable
			state = "not_ready"
		}
		c.JSON(status, gin.H{"status": state, "deps": deps, "uptime": time.Since(startTime).String()})
	})
}
