package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Nav *Navigator
}

func NewHandler(nav *Navigator) *Handler {
	return &Handler{Nav: nav}
}

// RegisterRoutes expects rg to sit behind auth.AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/navigate", h.navigate)
	rg.POST("/navigate/modal", h.modal)
	rg.POST("/navigate/home", h.home)
	rg.GET("/screen", h.screen)
}

type navigateReq struct {
	Hash string `json:"hash"`
}

type modalReq struct {
	Page Page `json:"page" binding:"required"`
}

func (h *Handler) navigate(c *gin.Context) {
	var req navigateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	c.JSON(http.StatusOK, h.Nav.HandleHash(c.Request.Context(), req.Hash))
}

func (h *Handler) modal(c *gin.Context) {
	var req modalReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page required"})
		return
	}

	s, err := h.Nav.OpenModal(c.Request.Context(), req.Page)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, h.Nav.ReturnHome(c.Request.Context()))
}

func (h *Handler) screen(c *gin.Context) {
	c.JSON(http.StatusOK, h.Nav.Screen(c.Request.Context()))
}
