package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codedeck/backend/internal/domain/vfs"
	"github.com/codedeck/backend/internal/shared/id"
)

// GetTree returns every node, parents before children
func (h *Handlers) GetTree(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"root_id": h.tree.RootID(),
		"nodes":   h.tree.Flatten(),
	})
}

// GetNode returns a single node by id
func (h *Handlers) GetNode(c *gin.Context) {
	nodeID := id.NodeID(c.Param("id"))

	node, ok := h.tree.Find(nodeID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "node not found",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"node":    node,
	})
}

// GetChildren lists the ordered children of a folder path
func (h *Handlers) GetChildren(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		badRequest(c, "path query parameter is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"children": h.tree.ChildrenOf(path),
	})
}

// CreateNode creates a file or folder under a parent path
func (h *Handlers) CreateNode(c *gin.Context) {
	var req struct {
		ParentPath string `json:"parent_path" binding:"required"`
		Name       string `json:"name" binding:"required"`
		Kind       string `json:"kind" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	kind := vfs.Kind(req.Kind)
	if kind != vfs.KindFile && kind != vfs.KindFolder {
		badRequest(c, "kind must be \"file\" or \"folder\"")
		return
	}

	nodeID, err := h.tree.Create(req.ParentPath, req.Name, kind)
	if err != nil {
		fail(c, err)
		return
	}

	node, _ := h.tree.Find(nodeID)
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"node":    node,
	})
}

// RenameNode changes a node's name and rewrites descendant paths
func (h *Handlers) RenameNode(c *gin.Context) {
	nodeID := id.NodeID(c.Param("id"))

	var req struct {
		Name string `json:"name" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.tree.Rename(nodeID, req.Name); err != nil {
		fail(c, err)
		return
	}

	node, _ := h.tree.Find(nodeID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"node":    node,
	})
}

// DeleteNode removes a node and its entire subtree
func (h *Handlers) DeleteNode(c *gin.Context) {
	nodeID := id.NodeID(c.Param("id"))

	if err := h.tree.Delete(nodeID); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// UpdateContent replaces a file's ground-truth content
func (h *Handlers) UpdateContent(c *gin.Context) {
	nodeID := id.NodeID(c.Param("id"))

	var req struct {
		Content string `json:"content"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request: "+err.Error())
		return
	}

	if err := h.tree.UpdateContent(nodeID, req.Content); err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// ToggleFolder flips a folder's expansion state
func (h *Handlers) ToggleFolder(c *gin.Context) {
	nodeID := id.NodeID(c.Param("id"))

	if err := h.tree.ToggleFolderExpansion(nodeID); err != nil {
		fail(c, err)
		return
	}

	node, _ := h.tree.Find(nodeID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"node":    node,
	})
}

// SearchTree matches nodes by name substring or glob pattern
func (h *Handlers) SearchTree(c *gin.Context) {
	if pattern := c.Query("glob"); pattern != "" {
		nodes, err := h.tree.SearchGlob(pattern)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"nodes":   nodes,
		})
		return
	}

	query := c.Query("q")
	if query == "" {
		badRequest(c, "q or glob query parameter is required")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"nodes":   h.tree.Search(query),
	})
}

// GetTreeStats reports node counts
func (h *Handlers) GetTreeStats(c *gin.Context) {
	stats := h.tree.Stats()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"stats": gin.H{
			"total_nodes": stats.TotalNodes,
			"files":       stats.Files,
			"folders":     stats.Folders,
		},
	})
}
