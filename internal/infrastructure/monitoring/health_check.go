package monitoring

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ConnectionCounter exposes how many realtime connections are live.
type ConnectionCounter interface {
	ConnectionCount() int
}

// HealthHandler returns a gin handler reporting process liveness and the
// size of the presence registry.
func HealthHandler(counter ConnectionCounter) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "healthy",
			"timestamp":   time.Now().Unix(),
			"connections": counter.ConnectionCount(),
		})
	}
}
