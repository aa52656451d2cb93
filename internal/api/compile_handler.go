package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CompileHandler exposes the background compile jobs.
type CompileHandler struct {
	app *App
}

// NewCompileHandler builds the handler.
func NewCompileHandler(app *App) *CompileHandler {
	return &CompileHandler{app: app}
}

// StartCompile saves the document and kicks off a compile run. Only
// one run may be in flight at a time.
func (h *CompileHandler) StartCompile(c *gin.Context) {
	job, started, err := h.app.StartCompile()
	if err != nil {
		Internal(c, err.Error())
		return
	}
	if !started {
		c.JSON(http.StatusConflict, gin.H{
			"error":  "compile already in progress",
			"job_id": job.ID,
		})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"job_id": job.ID})
}

// GetJob returns the status of a compile job.
func (h *CompileHandler) GetJob(c *gin.Context) {
	job, ok := h.app.JobByID(c.Param("id"))
	if !ok {
		NotFound(c, "unknown job")
		return
	}
	c.JSON(http.StatusOK, job)
}
