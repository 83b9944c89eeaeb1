package watchstate

import (
	"errors"
	"net/http"

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
	rg.GET("/continue-watching", h.listContinue)
	rg.POST("/continue-watching", h.recordContinue)
	rg.DELETE("/continue-watching", h.clearContinue)
	rg.GET("/mylist", h.listMyList)
	rg.POST("/mylist/toggle", h.toggleMyList)
}

type recordReq struct {
	Media   models.Media    `json:"media"`
	Episode *models.Episode `json:"episode"`
}

func (h *Handler) listContinue(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Service.ContinueWatching(c.Request.Context(), claims.ProfileID)
	if err != nil {
		writeError(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) recordContinue(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req recordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	entry, err := h.Service.RecordPlayback(c.Request.Context(), claims.ProfileID, req.Media, req.Episode)
	if err != nil {
		writeError(c, err, "record failed")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (h *Handler) clearContinue(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.Service.ClearHistory(c.Request.Context(), claims.ProfileID); err != nil {
		writeError(c, err, "clear failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cleared"})
}

func (h *Handler) listMyList(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	items, err := h.Service.MyList(c.Request.Context(), claims.ProfileID)
	if err != nil {
		writeError(c, err, "list failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) toggleMyList(c *gin.Context) {
	claims := auth.MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var media models.Media
	if err := c.ShouldBindJSON(&media); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	added, items, err := h.Service.ToggleMyList(c.Request.Context(), claims.ProfileID, media)
	if err != nil {
		writeError(c, err, "toggle failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"in_list": added, "items": items})
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperr.ErrNoActiveProfile):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no active profile"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
