package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jongocollab/jongohub/pkg/response"
)

// Health is the liveness probe.
func Health(c *gin.Context) {
	response.OK(c, http.StatusOK, "JongoHub API is running", gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
