package http

import "github.com/gin-gonic/gin"

// Register attaches every REST route to the router. The WebSocket and
// metrics endpoints are wired separately by the server.
func (h *Handlers) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	tree := r.Group("/tree")
	{
		tree.GET("", h.GetTree)
		tree.GET("/search", h.SearchTree)
		tree.GET("/stats", h.GetTreeStats)
		tree.GET("/children", h.GetChildren)
		tree.POST("/nodes", h.CreateNode)
		tree.GET("/nodes/:id", h.GetNode)
		tree.PUT("/nodes/:id/rename", h.RenameNode)
		tree.PUT("/nodes/:id/content", h.UpdateContent)
		tree.POST("/nodes/:id/toggle", h.ToggleFolder)
		tree.DELETE("/nodes/:id", h.DeleteNode)
	}

	session := r.Group("/session")
	{
		session.GET("", h.GetSession)
		session.GET("/stats", h.GetSessionStats)
		session.POST("/tabs", h.OpenTab)
		session.DELETE("/tabs/:id", h.CloseTab)
		session.PUT("/tabs/:id/activate", h.ActivateTab)
		session.GET("/tabs/:id/draft", h.GetDraft)
		session.PUT("/tabs/:id/draft", h.UpdateDraft)
		session.POST("/save", h.SaveActive)
		session.POST("/save-all", h.SaveAll)
		session.POST("/undo", h.Undo)
		session.POST("/redo", h.Redo)
	}

	workspaces := r.Group("/workspaces")
	{
		workspaces.GET("", h.ListWorkspaces)
		workspaces.POST("/:name", h.SaveWorkspace)
		workspaces.GET("/:name", h.GetWorkspace)
		workspaces.POST("/:name/restore", h.RestoreWorkspace)
		workspaces.DELETE("/:name", h.DeleteWorkspace)
	}
}
