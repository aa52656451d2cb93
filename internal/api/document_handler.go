package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resumed/internal/resume"
	"resumed/internal/schema"
	"resumed/internal/texmark"
)

// DocumentHandler serves the form-facing document API.
type DocumentHandler struct {
	app *App
}

// NewDocumentHandler builds the handler.
func NewDocumentHandler(app *App) *DocumentHandler {
	return &DocumentHandler{app: app}
}

// ListSections returns the section catalogue the form is built from.
func (h *DocumentHandler) ListSections(c *gin.Context) {
	c.JSON(http.StatusOK, schema.All())
}

type documentResponse struct {
	Header   resume.HeaderInfo `json:"header"`
	Profile  string            `json:"profile"`
	Sections []resume.Section  `json:"sections"`
	Dirty    bool              `json:"dirty"`
}

// GetDocument returns the whole document in section order.
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	var resp documentResponse
	h.app.Read(func(doc *resume.Document, _ []texmark.Warning) {
		resp = documentResponse{
			Header:   doc.Header,
			Profile:  doc.Profile,
			Sections: doc.Sections,
		}
	})
	resp.Dirty = h.app.Dirty()
	c.JSON(http.StatusOK, resp)
}

// GetHeader returns the header singleton.
func (h *DocumentHandler) GetHeader(c *gin.Context) {
	var header resume.HeaderInfo
	h.app.Read(func(doc *resume.Document, _ []texmark.Warning) {
		header = doc.Header
	})
	c.JSON(http.StatusOK, header)
}

// PutHeader replaces the header singleton.
func (h *DocumentHandler) PutHeader(c *gin.Context) {
	var header resume.HeaderInfo
	if err := c.ShouldBindJSON(&header); err != nil {
		BadRequest(c, err.Error())
		return
	}

	header = resume.NormalizeHeader(header)
	if err := resume.ValidateHeader(header); err != nil {
		respondValidation(c, err)
		return
	}

	_ = h.app.Mutate(func(doc *resume.Document) error {
		doc.Header = header
		return nil
	})
	c.JSON(http.StatusOK, header)
}

type profilePayload struct {
	Text string `json:"text"`
}

// GetProfile returns the profile text.
func (h *DocumentHandler) GetProfile(c *gin.Context) {
	var text string
	h.app.Read(func(doc *resume.Document, _ []texmark.Warning) {
		text = doc.Profile
	})
	c.JSON(http.StatusOK, profilePayload{Text: text})
}

// PutProfile replaces the profile text.
func (h *DocumentHandler) PutProfile(c *gin.Context) {
	var payload profilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		BadRequest(c, err.Error())
		return
	}

	_ = h.app.Mutate(func(doc *resume.Document) error {
		doc.Profile = payload.Text
		return nil
	})
	c.JSON(http.StatusOK, payload)
}

// sectionKey resolves the :key parameter to a repeating section type.
func sectionKey(c *gin.Context) (schema.SectionType, bool) {
	t := schema.SectionType(c.Param("key"))
	spec, err := schema.Lookup(t)
	if err != nil || spec.Singleton {
		NotFound(c, "unknown section")
		return "", false
	}
	return t, true
}

func entryIndex(c *gin.Context) (int, bool) {
	i, err := strconv.Atoi(c.Param("index"))
	if err != nil || i < 0 {
		NotFound(c, "no such entry")
		return 0, false
	}
	return i, true
}

// ListEntries returns the entries of one section in order.
func (h *DocumentHandler) ListEntries(c *gin.Context) {
	t, ok := sectionKey(c)
	if !ok {
		return
	}

	var entries []resume.Entry
	h.app.Read(func(doc *resume.Document, _ []texmark.Warning) {
		entries, _ = doc.Entries(t)
	})
	if entries == nil {
		entries = []resume.Entry{}
	}
	c.JSON(http.StatusOK, entries)
}

func (h *DocumentHandler) decodeEntry(c *gin.Context, t schema.SectionType) (resume.Entry, bool) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		BadRequest(c, "read body: "+err.Error())
		return nil, false
	}

	entry, err := resume.Decode(t, raw)
	if err != nil {
		BadRequest(c, err.Error())
		return nil, false
	}

	entry = resume.Normalize(entry)
	if err := resume.Validate(entry); err != nil {
		respondValidation(c, err)
		return nil, false
	}
	return entry, true
}

// CreateEntry appends a new entry to the section.
func (h *DocumentHandler) CreateEntry(c *gin.Context) {
	t, ok := sectionKey(c)
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(c, t)
	if !ok {
		return
	}

	var index int
	err := h.app.Mutate(func(doc *resume.Document) error {
		var err error
		index, err = doc.Append(entry)
		return err
	})
	if err != nil {
		Internal(c, err.Error())
		return
	}
	c.JSON(http.StatusCreated, gin.H{"index": index})
}

// UpdateEntry replaces the entry at the given index.
func (h *DocumentHandler) UpdateEntry(c *gin.Context) {
	t, ok := sectionKey(c)
	if !ok {
		return
	}
	i, ok := entryIndex(c)
	if !ok {
		return
	}
	entry, ok := h.decodeEntry(c, t)
	if !ok {
		return
	}

	if err := h.app.Mutate(func(doc *resume.Document) error {
		return doc.Update(i, entry)
	}); err != nil {
		NotFound(c, "no such entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": i})
}

// DeleteEntry removes the entry at the given index.
func (h *DocumentHandler) DeleteEntry(c *gin.Context) {
	t, ok := sectionKey(c)
	if !ok {
		return
	}
	i, ok := entryIndex(c)
	if !ok {
		return
	}

	if err := h.app.Mutate(func(doc *resume.Document) error {
		return doc.Delete(t, i)
	}); err != nil {
		NotFound(c, "no such entry")
		return
	}
	c.Status(http.StatusNoContent)
}

type moveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// MoveEntry swaps an entry with its neighbour. Moves past either end
// of the section leave the order unchanged.
func (h *DocumentHandler) MoveEntry(c *gin.Context) {
	t, ok := sectionKey(c)
	if !ok {
		return
	}
	i, ok := entryIndex(c)
	if !ok {
		return
	}

	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}
	delta := -1
	if req.Direction == "down" {
		delta = 1
	}

	var index int
	if err := h.app.Mutate(func(doc *resume.Document) error {
		var err error
		index, err = doc.Move(t, i, delta)
		return err
	}); err != nil {
		NotFound(c, "no such entry")
		return
	}
	c.JSON(http.StatusOK, gin.H{"index": index})
}

// GetWarnings returns the parse warnings of the last load.
func (h *DocumentHandler) GetWarnings(c *gin.Context) {
	out := []texmark.Warning{}
	h.app.Read(func(_ *resume.Document, warnings []texmark.Warning) {
		out = append(out, warnings...)
	})
	c.JSON(http.StatusOK, out)
}

// Reload discards the in-memory document and re-parses the content
// file, losing any unsaved edits.
func (h *DocumentHandler) Reload(c *gin.Context) {
	if err := h.app.LoadFromDisk(); err != nil {
		Internal(c, err.Error())
		return
	}
	h.app.hub.Broadcast("document_changed", map[string]any{"source": "reload"})
	c.Status(http.StatusNoContent)
}

// Save writes the document back to the content file.
func (h *DocumentHandler) Save(c *gin.Context) {
	if err := h.app.Save("manual save"); err != nil {
		var serr *texmark.SerializationError
		if errors.As(err, &serr) {
			Unprocessable(c, serr.Error(), nil)
			return
		}
		Internal(c, err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

func respondValidation(c *gin.Context, err error) {
	var verr *resume.ValidationError
	if errors.As(err, &verr) {
		Unprocessable(c, verr.Error(), verr.Fields)
		return
	}
	Unprocessable(c, err.Error(), nil)
}
