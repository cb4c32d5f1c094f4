// Package handlers provides the HTTP handlers for the lead operations API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leadrelay/leadrelay-go/internal/domain/apperr"
)

// respondError maps a service error onto the response envelope at the
// outermost scope. Unclassified errors are reported as internal.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperr.As(err); ok {
		c.JSON(appErr.HTTPStatus(), gin.H{
			"error":   string(appErr.Kind),
			"message": appErr.Msg,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": err.Error(),
	})
}
