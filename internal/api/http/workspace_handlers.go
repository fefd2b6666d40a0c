package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codedeck/backend/internal/domain/workspace"
)

func (h *Handlers) requireWorkspaces(c *gin.Context) bool {
	if h.workspaces == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "workspace persistence is disabled",
		})
		return false
	}
	return true
}

func failWorkspace(c *gin.Context, err error) {
	if errors.Is(err, workspace.ErrSnapshotNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	fail(c, err)
}

// SaveWorkspace snapshots the current session under a name
func (h *Handlers) SaveWorkspace(c *gin.Context) {
	if !h.requireWorkspaces(c) {
		return
	}

	snap, err := h.workspaces.Save(c.Request.Context(), c.Param("name"))
	if err != nil {
		failWorkspace(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"workspace": gin.H{
			"id":       snap.ID,
			"name":     snap.Name,
			"saved_at": snap.SavedAt,
			"tabs":     len(snap.Tabs),
		},
	})
}

// ListWorkspaces lists saved snapshots
func (h *Handlers) ListWorkspaces(c *gin.Context) {
	if !h.requireWorkspaces(c) {
		return
	}

	list, err := h.workspaces.List(c.Request.Context())
	if err != nil {
		failWorkspace(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"workspaces": list,
	})
}

// GetWorkspace returns a snapshot's layout without applying it
func (h *Handlers) GetWorkspace(c *gin.Context) {
	if !h.requireWorkspaces(c) {
		return
	}

	snap, err := h.workspaces.Load(c.Request.Context(), c.Param("name"))
	if err != nil {
		failWorkspace(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workspace": snap,
	})
}

// RestoreWorkspace replaces the live session with a saved snapshot
func (h *Handlers) RestoreWorkspace(c *gin.Context) {
	if !h.requireWorkspaces(c) {
		return
	}

	if err := h.workspaces.Restore(c.Request.Context(), c.Param("name")); err != nil {
		failWorkspace(c, err)
		return
	}

	c.JSON(http.StatusOK, h.sessionState())
}

// DeleteWorkspace removes a saved snapshot
func (h *Handlers) DeleteWorkspace(c *gin.Context) {
	if !h.requireWorkspaces(c) {
		return
	}

	if err := h.workspaces.Delete(c.Request.Context(), c.Param("name")); err != nil {
		failWorkspace(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}
