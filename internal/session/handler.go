package session

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"animeverse/pkg/apperr"
)

type Handler struct {
	Session *Session
}

func NewHandler(s *Session) *Handler {
	return &Handler{Session: s}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/session", h.activate)
	rg.GET("/session", h.current)
	rg.DELETE("/session", h.signOut)
}

type activateReq struct {
	ProfileID string `json:"profile_id"`
	PIN       string `json:"pin"`
}

func (h *Handler) activate(c *gin.Context) {
	var req activateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	id := strings.TrimSpace(req.ProfileID)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profile_id required"})
		return
	}

	act, err := h.Session.Activate(c.Request.Context(), id, req.PIN)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		case errors.Is(err, apperr.ErrInvalidPIN):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid pin"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "activation failed"})
		}
		return
	}
	c.JSON(http.StatusOK, act)
}

func (h *Handler) current(c *gin.Context) {
	p := h.Session.Active()
	if p == nil {
		c.JSON(http.StatusOK, gin.H{"active": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"active": p.Public()})
}

func (h *Handler) signOut(c *gin.Context) {
	h.Session.SignOut()
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
