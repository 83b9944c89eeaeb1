package settings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/internal/storage"
	"animeverse/pkg/apperr"
)

func newTestService() (*Service, storage.Store) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	store := storage.NewMemoryStore()
	return NewService(store, log), store
}

func TestThemeDefaultsAndFallback(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	assert.Equal(t, ThemeBlue, svc.Theme(ctx))

	_, err := svc.SetTheme(ctx, "red")
	require.NoError(t, err)
	assert.Equal(t, ThemeRed, svc.Theme(ctx))

	raw, _, err := store.Get(ctx, storage.ThemeKey)
	require.NoError(t, err)
	assert.Equal(t, `"red"`, raw)

	require.NoError(t, store.Set(ctx, storage.ThemeKey, "red"))
	assert.Equal(t, ThemeBlue, svc.Theme(ctx))

	require.NoError(t, store.Set(ctx, storage.ThemeKey, `"green"`))
	assert.Equal(t, ThemeBlue, svc.Theme(ctx))

	_, err = svc.SetTheme(ctx, "green")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestPlaybackSettingsArePerProfile(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	assert.Equal(t, "", svc.Provider(ctx, "1"))
	assert.Equal(t, 1, svc.MultiEmbedServer(ctx, "1"))

	require.NoError(t, svc.SetProvider(ctx, "1", "MultiEmbed"))
	require.NoError(t, svc.SetMultiEmbedServer(ctx, "1", 3))
	assert.Equal(t, "MultiEmbed", svc.Provider(ctx, "1"))
	assert.Equal(t, 3, svc.MultiEmbedServer(ctx, "1"))
	assert.Equal(t, "", svc.Provider(ctx, "2"))

	assert.ErrorIs(t, svc.SetMultiEmbedServer(ctx, "1", 0), apperr.ErrInvalidInput)
}

func TestThemeHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService()
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/settings"))

	put := func(body string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/settings/theme", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, put(`{"theme":"red"}`))
	assert.Equal(t, http.StatusBadRequest, put(`{"theme":"pink"}`))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings/theme", nil))
	assert.JSONEq(t, `{"theme":"red"}`, w.Body.String())
}
