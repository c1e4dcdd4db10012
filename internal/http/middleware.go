package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const readOnlyMessage = "the library is read-only"

// ReadOnly blocks every request that could change the library. GET, HEAD and
// OPTIONS always pass. Exports stay available since they are GETs.
func ReadOnly(enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":     readOnlyMessage,
			"read_only": true,
		})
	}
}
