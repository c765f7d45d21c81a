package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/columns", h.columns)
	rg.GET("/meta-boxes", h.metaBoxes)
	rg.GET("/:post_id", h.get)
	rg.GET("/:post_id/columns", h.renderColumns)
	rg.GET("/:post_id/nonces", h.issueNonces)
	rg.POST("/:post_id", h.save)
}
