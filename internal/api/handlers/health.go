package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Health handles GET /health, a liveness probe that pings storage.
func (s *Server) Health(c *gin.Context) {
	if s.db != nil {
		if err := s.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "DEGRADED",
				"database": "error",
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}
