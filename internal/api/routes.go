package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"resumed/internal/history"
)

// RegisterRoutes attaches the document, compile, revision and
// websocket endpoints under /v1.
func RegisterRoutes(router *gin.Engine, app *App, store *history.Store, logger *slog.Logger) {
	documentHandler := NewDocumentHandler(app)
	compileHandler := NewCompileHandler(app)
	revisionHandler := NewRevisionHandler(app, store)
	wsHandler := NewWsHandler(app.hub, logger)

	v1 := router.Group("/v1")
	{
		v1.GET("/ws", wsHandler.HandleConnection)

		v1.GET("/sections", documentHandler.ListSections)
		v1.GET("/document", documentHandler.GetDocument)
		v1.GET("/warnings", documentHandler.GetWarnings)
		v1.POST("/reload", documentHandler.Reload)
		v1.POST("/save", documentHandler.Save)

		v1.GET("/header", documentHandler.GetHeader)
		v1.PUT("/header", documentHandler.PutHeader)
		v1.GET("/profile", documentHandler.GetProfile)
		v1.PUT("/profile", documentHandler.PutProfile)

		sectionGroup := v1.Group("/sections/:key")
		{
			sectionGroup.GET("/entries", documentHandler.ListEntries)
			sectionGroup.POST("/entries", documentHandler.CreateEntry)
			sectionGroup.PUT("/entries/:index", documentHandler.UpdateEntry)
			sectionGroup.DELETE("/entries/:index", documentHandler.DeleteEntry)
			sectionGroup.POST("/entries/:index/move", documentHandler.MoveEntry)
		}

		v1.POST("/compile", compileHandler.StartCompile)
		v1.GET("/compile/:id", compileHandler.GetJob)

		v1.GET("/revisions", revisionHandler.ListRevisions)
		v1.POST("/revisions/:id/restore", revisionHandler.RestoreRevision)
	}
}
