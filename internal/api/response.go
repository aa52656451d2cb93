package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func Error(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"error": msg})
}

func BadRequest(c *gin.Context, msg string) { Error(c, http.StatusBadRequest, msg) }
func NotFound(c *gin.Context, msg string)   { Error(c, http.StatusNotFound, msg) }
func Internal(c *gin.Context, msg string)   { Error(c, http.StatusInternalServerError, msg) }

// Unprocessable reports a validation failure, optionally with
// per-field detail.
func Unprocessable(c *gin.Context, msg string, fields any) {
	body := gin.H{"error": msg}
	if fields != nil {
		body["fields"] = fields
	}
	c.JSON(http.StatusUnprocessableEntity, body)
}
