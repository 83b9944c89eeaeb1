package profile

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/profiles", h.list)
	rg.POST("/profiles", h.create)
	rg.PUT("/profiles/:id", h.update)
	rg.POST("/profiles/:id/avatar", h.refreshAvatar)
	rg.DELETE("/profiles/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Service.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list failed"})
		return
	}

	out := make([]models.PublicProfile, 0, len(list))
	for _, p := range list {
		out = append(out, p.Public())
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (h *Handler) create(c *gin.Context) {
	var req CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Service.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err, "create failed")
		return
	}
	c.JSON(http.StatusCreated, p.Public())
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	p, err := h.Service.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err, "update failed")
		return
	}
	c.JSON(http.StatusOK, p.Public())
}

func (h *Handler) refreshAvatar(c *gin.Context) {
	p, err := h.Service.RefreshAvatar(c.Request.Context(), strings.TrimSpace(c.Param("id")))
	if err != nil {
		writeError(c, err, "refresh failed")
		return
	}
	c.JSON(http.StatusOK, p.Public())
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Service.Delete(c.Request.Context(), strings.TrimSpace(c.Param("id"))); err != nil {
		writeError(c, err, "delete failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
	case errors.Is(err, apperr.ErrLastProfile):
		c.JSON(http.StatusConflict, gin.H{"error": apperr.ErrLastProfile.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
