package catalog

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

const loadFailedMessage = "Failed to load data. Please check your API key and network connection."

// Service is the part of Client the HTTP layer needs.
type Service interface {
	HomePage(ctx context.Context) (*models.HomePageData, error)
	KidsHomePage(ctx context.Context) (*models.HomePageData, error)
	DiscoverPage(ctx context.Context) *models.DiscoverPageData
	Search(ctx context.Context, query string) ([]models.Media, error)
	Details(ctx context.Context, id int, mediaType models.MediaType) (*models.Media, error)
	SeasonEpisodes(ctx context.Context, tvID, season int) ([]models.Episode, error)
	FindByIMDb(ctx context.Context, imdbID string) (int, models.MediaType, bool, error)
	Library(ctx context.Context, f LibraryFilter) ([]models.Media, error)
}

type Handler struct {
	Catalog Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{Catalog: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/home", h.home)
	rg.GET("/discover", h.discover)
	rg.GET("/search", h.search)
	rg.GET("/library", h.library)
	rg.GET("/find/:imdb_id", h.find)
	rg.GET("/movie/:id", h.details(models.MediaTypeMovie))
	rg.GET("/tv/:id", h.details(models.MediaTypeTV))
	rg.GET("/tv/:id/season/:season", h.season)
}

func kidsQuery(c *gin.Context) bool {
	v, _ := strconv.ParseBool(c.Query("kids"))
	return v
}

func (h *Handler) home(c *gin.Context) {
	var (
		data *models.HomePageData
		err  error
	)
	if kidsQuery(c) {
		data, err = h.Catalog.KidsHomePage(c.Request.Context())
		if err == nil {
			data = KidsRows(data)
		}
	} else {
		data, err = h.Catalog.HomePage(c.Request.Context())
	}
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

func (h *Handler) discover(c *gin.Context) {
	c.JSON(http.StatusOK, h.Catalog.DiscoverPage(c.Request.Context()))
}

func (h *Handler) search(c *gin.Context) {
	q := c.Query("q")
	results, err := h.Catalog.Search(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to perform search. Please try again."})
		return
	}
	if kidsQuery(c) {
		results = KidsSearch(results)
	}
	c.JSON(http.StatusOK, gin.H{"query": q, "items": results})
}

func (h *Handler) library(c *gin.Context) {
	f, err := ParseLibraryFilter(c.Query("type"), c.Query("year"), c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	items, err := h.Catalog.Library(c.Request.Context(), f)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) details(mt models.MediaType) gin.HandlerFunc {
	return func(c *gin.Context) {
		h.detailsOf(c, mt)
	}
}

func (h *Handler) detailsOf(c *gin.Context, mt models.MediaType) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	m, err := h.Catalog.Details(c.Request.Context(), id, mt)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"media":          m,
		"valid_seasons":  ValidSeasons(*m),
		"initial_season": InitialSeason(*m),
		"trailer":        Trailer(*m),
	})
}

func (h *Handler) season(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	season, err := strconv.Atoi(c.Param("season"))
	if err != nil || season < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid season"})
		return
	}

	eps, err := h.Catalog.SeasonEpisodes(c.Request.Context(), id, season)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": eps})
}

func (h *Handler) find(c *gin.Context) {
	imdbID := strings.TrimSpace(c.Param("imdb_id"))
	if !strings.HasPrefix(imdbID, "tt") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid imdb id"})
		return
	}

	id, mt, found, err := h.Catalog.FindByIMDb(c.Request.Context(), imdbID)
	if err != nil {
		writeUpstreamError(c, err)
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "media_type": mt})
}

func writeUpstreamError(c *gin.Context, err error) {
	if apperr.CatalogStatus(err) == http.StatusNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": loadFailedMessage})
}
