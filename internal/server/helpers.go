package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondError sends a standardised JSON error response.
func RespondError(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}

// BindJSON binds JSON and returns true if successful. If failed, it sends a
// bad request error.
func BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		RespondError(c, http.StatusBadRequest, err)
		return false
	}
	return true
}
