package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumed/internal/history"
	"resumed/internal/texmark"
)

// RevisionHandler serves the saved-content snapshot history.
type RevisionHandler struct {
	app   *App
	store *history.Store
}

// NewRevisionHandler builds the handler.
func NewRevisionHandler(app *App, store *history.Store) *RevisionHandler {
	return &RevisionHandler{app: app, store: store}
}

const revisionListLimit = 50

type revisionListItem struct {
	ID        uint      `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"created_at"`
}

// ListRevisions returns recent snapshots, newest first.
func (h *RevisionHandler) ListRevisions(c *gin.Context) {
	snapshots, err := h.store.List(revisionListLimit)
	if err != nil {
		Internal(c, "failed to list revisions")
		return
	}

	items := make([]revisionListItem, 0, len(snapshots))
	for _, s := range snapshots {
		items = append(items, revisionListItem{
			ID:        s.ID,
			Label:     s.Label,
			CreatedAt: s.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, items)
}

// RestoreRevision replaces the in-memory document with a snapshot's
// content. Like a reload, the result is unsaved until the next save.
func (h *RevisionHandler) RestoreRevision(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		BadRequest(c, "invalid revision id")
		return
	}

	snapshot, err := h.store.Get(uint(id))
	if err != nil {
		if errors.Is(err, history.ErrNotFound) {
			NotFound(c, "revision not found")
			return
		}
		Internal(c, "failed to load revision")
		return
	}

	doc, warnings := texmark.Parse(snapshot.Content)
	h.app.ReplaceDocument(doc, warnings)
	h.app.hub.Broadcast("document_changed", map[string]any{"source": "restore"})
	c.Status(http.StatusNoContent)
}
