// Package ui embeds the single-page form the local server hands to
// the browser.
package ui

import (
	"embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static
var staticFS embed.FS

// Register mounts the form page at the site root.
func Register(router *gin.Engine) {
	router.GET("/", func(c *gin.Context) {
		data, err := staticFS.ReadFile("static/index.html")
		if err != nil {
			c.String(http.StatusInternalServerError, "form page missing")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	})
}
