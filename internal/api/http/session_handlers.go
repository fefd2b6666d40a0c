package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codedeck/backend/internal/shared/id"
)

// Session mutations follow the tolerant contract of the editor manager:
// a request naming a tab that no longer exists is a no-op, not an error.
// Every mutation responds with the resulting session state so the
// frontend can reconcile without a second round trip.

func (h *Handlers) sessionState() gin.H {
	return gin.H{
		"success":       true,
		"tabs":          h.editor.Tabs(),
		"active_tab_id": h.editor.ActiveTabID(),
	}
}

// GetSession returns the open tabs and active tab
func (h *Handlers) GetSession(c *gin.Context) {
	c.JSON(http.StatusOK, h.sessionState())
}

// OpenTab opens a file in a tab, or re-activates its existing tab
func (h *Handlers) OpenTab(c *gin.Context) {
	var req struct {
		FileID string `json:"file_id" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.editor.OpenTab(id.NodeID(req.FileID))
	c.JSON(http.StatusOK, h.sessionState())
}

// CloseTab closes a tab and records the close for undo
func (h *Handlers) CloseTab(c *gin.Context) {
	h.editor.CloseTab(id.NodeID(c.Param("id")))
	c.JSON(http.StatusOK, h.sessionState())
}

// ActivateTab focuses an already open tab
func (h *Handlers) ActivateTab(c *gin.Context) {
	h.editor.SetActiveTab(id.NodeID(c.Param("id")))
	c.JSON(http.StatusOK, h.sessionState())
}

// UpdateDraft replaces a tab's draft content
func (h *Handlers) UpdateDraft(c *gin.Context) {
	var req struct {
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	h.editor.UpdateDraft(id.NodeID(c.Param("id")), req.Content)
	c.JSON(http.StatusOK, h.sessionState())
}

// GetDraft returns a tab's draft content
func (h *Handlers) GetDraft(c *gin.Context) {
	tabID := id.NodeID(c.Param("id"))

	tab, ok := h.editor.Tab(tabID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "tab not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"tab_id":   tab.ID,
		"content":  tab.Draft,
		"modified": tab.Modified,
	})
}

// SaveActive commits the active tab's draft to the tree
func (h *Handlers) SaveActive(c *gin.Context) {
	h.editor.SaveActive()
	c.JSON(http.StatusOK, h.sessionState())
}

// SaveAll commits every modified tab's draft to the tree
func (h *Handlers) SaveAll(c *gin.Context) {
	h.editor.SaveAll()
	c.JSON(http.StatusOK, h.sessionState())
}

// Undo reverts the most recent recorded action
func (h *Handlers) Undo(c *gin.Context) {
	h.editor.Undo()
	c.JSON(http.StatusOK, h.sessionState())
}

// Redo reapplies the most recently undone action
func (h *Handlers) Redo(c *gin.Context) {
	h.editor.Redo()
	c.JSON(http.StatusOK, h.sessionState())
}

// GetSessionStats reports session counters
func (h *Handlers) GetSessionStats(c *gin.Context) {
	stats := h.editor.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"open_tabs":     stats.OpenTabs,
			"modified_tabs": stats.ModifiedTabs,
			"undo_depth":    stats.UndoDepth,
			"redo_depth":    stats.RedoDepth,
			"active_tab_id": stats.ActiveTabID,
		},
	})
}
