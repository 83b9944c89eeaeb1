// Package catalog talks to the TMDB REST API and normalizes its answers into
// models.Media records.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"animeverse/pkg/apperr"
	"animeverse/pkg/utils"
)

const (
	DefaultBaseURL  = "https://api.themoviedb.org/3"
	DefaultLanguage = "en-US"
)

type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	language   string
	limiter    *rate.Limiter
	log        logrus.FieldLogger

	// Now is used for date-relative queries.
	Now func() time.Time

	genreMu sync.Mutex
	genres  map[int]string
}

// NewClient builds a client from cfg. A zero Timeout leaves requests
// unbounded; a zero RPS disables rate limiting.
func NewClient(cfg utils.CatalogConfig, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	lang := cfg.Language
	if lang == "" {
		lang = DefaultLanguage
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.RPS > 0 {
		burst := int(cfg.RPS)
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    base,
		apiKey:     cfg.APIKey,
		language:   lang,
		limiter:    limiter,
		log:        log.WithField("component", "catalog"),
		Now:        time.Now,
		genres:     map[int]string{},
	}
}

type errorBody struct {
	StatusMessage string `json:"status_message"`
}

// get fetches endpoint (relative to the base URL, optionally carrying its own
// query string) and decodes the JSON body into dst.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, dst any) error {
	u, err := c.endpointURL(endpoint, params)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Error("catalog request failed")
		return fmt.Errorf("fetch %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body errorBody
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		_ = json.Unmarshal(raw, &body)
		cerr := &apperr.CatalogError{Endpoint: endpoint, Status: resp.StatusCode, Message: body.StatusMessage}
		c.log.WithFields(logrus.Fields{"endpoint": endpoint, "status": resp.StatusCode}).Error(cerr.Error())
		return cerr
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) endpointURL(endpoint string, params url.Values) (string, error) {
	path, rawQuery, _ := strings.Cut(strings.TrimLeft(endpoint, "/"), "?")
	u, err := url.Parse(c.baseURL + "/" + path)
	if err != nil {
		return "", fmt.Errorf("build url for %s: %w", endpoint, err)
	}

	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", fmt.Errorf("build url for %s: %w", endpoint, err)
	}
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("api_key", c.apiKey)
	q.Set("language", c.language)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

type genreList struct {
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
}

// genreMap returns the cached id->name map, loading it on first use. A failed
// load is logged and leaves the cache empty so the next call tries again.
func (c *Client) genreMap(ctx context.Context) map[int]string {
	c.genreMu.Lock()
	defer c.genreMu.Unlock()
	if len(c.genres) > 0 {
		return c.genres
	}

	var movie, tv genreList
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.get(gctx, "genre/movie/list", nil, &movie) })
	g.Go(func() error { return c.get(gctx, "genre/tv/list", nil, &tv) })
	if err := g.Wait(); err != nil {
		c.log.WithError(err).Warn("genre lookup unavailable")
		return c.genres
	}

	m := make(map[int]string, len(movie.Genres)+len(tv.Genres))
	for _, gl := range []genreList{movie, tv} {
		for _, genre := range gl.Genres {
			m[genre.ID] = genre.Name
		}
	}
	c.genres = m
	return c.genres
}
