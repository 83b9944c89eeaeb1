package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"animeverse/pkg/models"
)

type fixedActive struct {
	id  string
	gen uint64
}

func (f fixedActive) IsCurrent(id string, gen uint64) bool { return f.id == id && f.gen == gen }

func testTokens() TokenService {
	return TokenService{Secret: []byte("test-secret"), Issuer: "animeverse-test", Duration: time.Hour}
}

func TestSignAndParse(t *testing.T) {
	ts := testTokens()
	tok, exp, err := ts.Sign(models.Profile{ID: "2", Name: "Mikasa"}, 7)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))

	claims, err := ts.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "2", claims.ProfileID)
	assert.Equal(t, "Mikasa", claims.Name)
	assert.Equal(t, uint64(7), claims.Generation)
}

func TestParseRejectsForeignSecretAndExpiry(t *testing.T) {
	ts := testTokens()
	tok, _, err := ts.Sign(models.Profile{ID: "1"}, 1)
	require.NoError(t, err)

	other := ts
	other.Secret = []byte("other")
	_, err = other.Parse(tok)
	assert.Error(t, err)

	expired := ts
	expired.Duration = -time.Minute
	tok, _, err = expired.Sign(models.Profile{ID: "1"}, 1)
	require.NoError(t, err)
	_, err = ts.Parse(tok)
	assert.Error(t, err)
}

func TestMiddlewareRejectsStaleGeneration(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ts := testTokens()

	r := gin.New()
	r.Use(AuthMiddleware(ts, fixedActive{id: "1", gen: 2}))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"profile_id": MustGetClaims(c).ProfileID})
	})

	do := func(header string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		r.ServeHTTP(w, req)
		return w.Code
	}

	current, _, err := ts.Sign(models.Profile{ID: "1"}, 2)
	require.NoError(t, err)
	stale, _, err := ts.Sign(models.Profile{ID: "1"}, 1)
	require.NoError(t, err)
	otherProfile, _, err := ts.Sign(models.Profile{ID: "3"}, 2)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, do("Bearer "+current))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+stale))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer "+otherProfile))
	assert.Equal(t, http.StatusUnauthorized, do(""))
	assert.Equal(t, http.StatusUnauthorized, do("Bearer garbage"))
}
