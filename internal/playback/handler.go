package playback

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"animeverse/internal/auth"
	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type Handler struct {
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Service: svc}
}

// RegisterRoutes expects rg to sit behind auth.AuthMiddleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/providers", h.providers)
	rg.PUT("/provider", h.selectProvider)
	rg.POST("", h.play)
	rg.POST("/resume/:type/:id", h.resume)
}

type selectReq struct {
	Name   string `json:"name"`
	Server int    `json:"server"`
}

type playReq struct {
	Media   models.Media    `json:"media"`
	Episode *models.Episode `json:"episode"`
}

func (h *Handler) providers(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    Providers,
		"selected": h.Service.Selected(c.Request.Context(), claims.ProfileID),
		"servers":  MultiEmbedServers,
	})
}

func (h *Handler) selectProvider(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req selectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	sel, err := h.Service.Select(c.Request.Context(), claims.ProfileID, req.Name, req.Server)
	if err != nil {
		if errors.Is(err, apperr.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "select failed"})
		return
	}
	c.JSON(http.StatusOK, sel)
}

func (h *Handler) play(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req playReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	pb, err := h.Service.Play(c.Request.Context(), claims.ProfileID, req.Media, req.Episode)
	writePlayback(c, pb, err)
}

func (h *Handler) resume(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	mt, ok := models.ParseMediaType(c.Param("type"))
	id, err := strconv.Atoi(c.Param("id"))
	if !ok || err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media"})
		return
	}

	pb, err := h.Service.Resume(c.Request.Context(), claims.ProfileID, id, mt)
	writePlayback(c, pb, err)
}

func writePlayback(c *gin.Context, pb *Playback, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, pb)
	case apperr.IsPlaybackBlocked(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "playback": pb})
	case errors.Is(err, apperr.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not in continue watching"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "playback failed"})
	}
}
