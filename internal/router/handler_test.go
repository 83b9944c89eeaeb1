package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"animeverse/pkg/models"
)

func TestHandlerNavigateAndModal(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cat := &mockCatalog{}
	cat.On("Details", mock.Anything, 550, models.MediaTypeMovie).Return(&models.Media{ID: 550, MediaType: models.MediaTypeMovie}, nil)
	nav, _ := newTestNavigator(cat, nil)

	r := gin.New()
	NewHandler(nav).RegisterRoutes(r.Group("/me"))

	post := func(path, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	w := post("/me/navigate", `{"hash":"#/movie/550"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var s Screen
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &s))
	assert.Equal(t, PageDetails, s.View.Page)
	assert.Equal(t, StatusReady, s.Status)

	assert.Equal(t, http.StatusBadRequest, post("/me/navigate/modal", `{"page":"search"}`).Code)
	assert.Equal(t, http.StatusOK, post("/me/navigate/modal", `{"page":"account"}`).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/me/screen", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"page":"account"`)
}
