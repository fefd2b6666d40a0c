// Package http exposes the file tree, editor session, and workspace
// managers over REST.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codedeck/backend/internal/domain/editor"
	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/domain/workspace"
)

// Handlers holds the domain managers the REST surface delegates to
type Handlers struct {
	tree       *vfs.Tree
	editor     *editor.Manager
	workspaces *workspace.Manager
}

// NewHandlers creates the REST handler set. The workspace manager may
// be nil when persistence is disabled.
func NewHandlers(tree *vfs.Tree, ed *editor.Manager, ws *workspace.Manager) *Handlers {
	return &Handlers{
		tree:       tree,
		editor:     ed,
		workspaces: ws,
	}
}

// Health reports liveness
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "codedeck-backend",
	})
}

// statusFor maps tree errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, vfs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, vfs.ErrDuplicateName):
		return http.StatusConflict
	case errors.Is(err, vfs.ErrInvalidParent),
		errors.Is(err, vfs.ErrNotAFile),
		errors.Is(err, vfs.ErrInvalidName):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error":   msg,
	})
}
