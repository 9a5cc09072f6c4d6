package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondOK wraps data in the success envelope used by the non-query
// endpoints. Query endpoints return their result type directly.
func respondOK(c *gin.Context, data gin.H) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{
		"success": false,
		"error":   msg,
	})
}
