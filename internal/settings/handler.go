package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/theme", h.getTheme)
	rg.PUT("/theme", h.putTheme)
}

type themeReq struct {
	Theme string `json:"theme"`
}

func (h *Handler) getTheme(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theme": h.Service.Theme(c.Request.Context())})
}

func (h *Handler) putTheme(c *gin.Context) {
	var req themeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	t, err := h.Service.SetTheme(c.Request.Context(), req.Theme)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "theme must be blue or red"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": t})
}
