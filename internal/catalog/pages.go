package catalog

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"animeverse/pkg/models"
)

const kidsDiscoverParams = "certification_country=US&certification.lte=G&with_genres=16,10751&sort_by=popularity.desc"

// fetchRows loads several list endpoints concurrently. Any failure fails the
// whole set.
func (c *Client) fetchRows(ctx context.Context, endpoints ...string) ([][]rawMedia, error) {
	rows := make([][]rawMedia, len(endpoints))
	g, gctx := errgroup.WithContext(ctx)
	for i, ep := range endpoints {
		g.Go(func() error {
			var page rawPage
			if err := c.get(gctx, ep, nil, &page); err != nil {
				return err
			}
			rows[i] = page.Results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func (c *Client) HomePage(ctx context.Context) (*models.HomePageData, error) {
	genres := c.genreMap(ctx)
	rows, err := c.fetchRows(ctx, "trending/all/week", "movie/popular", "tv/top_rated", "movie/upcoming")
	if err != nil {
		return nil, fmt.Errorf("load home page: %w", err)
	}

	trending := make([]rawMedia, 0, len(rows[0]))
	for _, it := range rows[0] {
		if it.MediaType == "person" {
			continue
		}
		trending = append(trending, it)
	}

	return &models.HomePageData{
		Trending:       normalizeAll(trending, genres),
		PopularMovies:  normalizeAll(rows[1], genres),
		TopRatedTV:     normalizeAll(rows[2], genres),
		UpcomingMovies: normalizeAll(rows[3], genres),
	}, nil
}

// KidsHomePage builds the home rows from G-rated animation and family titles.
func (c *Client) KidsHomePage(ctx context.Context) (*models.HomePageData, error) {
	genres := c.genreMap(ctx)
	upcoming := fmt.Sprintf("discover/movie?%s&release_date.gte=%d-01-01", kidsDiscoverParams, c.Now().Year())
	rows, err := c.fetchRows(ctx,
		"discover/movie?"+kidsDiscoverParams,
		"discover/movie?"+kidsDiscoverParams,
		"discover/tv?"+kidsDiscoverParams,
		upcoming,
	)
	if err != nil {
		return nil, fmt.Errorf("load kids home page: %w", err)
	}

	return &models.HomePageData{
		Trending:       normalizeAll(rows[0], genres),
		PopularMovies:  normalizeAll(rows[1], genres),
		TopRatedTV:     normalizeAll(rows[2], genres),
		UpcomingMovies: normalizeAll(rows[3], genres),
	}, nil
}

// DiscoverPage never fails: an upstream error yields three empty rows.
func (c *Client) DiscoverPage(ctx context.Context) *models.DiscoverPageData {
	genres := c.genreMap(ctx)
	rows, err := c.fetchRows(ctx,
		"trending/tv/week",
		"discover/movie?sort_by=revenue.desc",
		"discover/tv?with_genres=16&sort_by=popularity.desc&with_original_language=ja",
	)
	if err != nil {
		c.log.WithError(err).Warn("discover page unavailable")
		return &models.DiscoverPageData{
			Top10Week:       []models.Media{},
			AllTimeGrossing: []models.Media{},
			PopularAnime:    []models.Media{},
		}
	}

	top := rows[0]
	if len(top) > 10 {
		top = top[:10]
	}
	return &models.DiscoverPageData{
		Top10Week:       normalizeAll(top, genres),
		AllTimeGrossing: normalizeAll(rows[1], genres),
		PopularAnime:    normalizeAll(rows[2], genres),
	}
}

// Search returns movie and tv matches for query. A blank query returns an
// empty slice without calling the API.
func (c *Client) Search(ctx context.Context, query string) ([]models.Media, error) {
	if strings.TrimSpace(query) == "" {
		return []models.Media{}, nil
	}
	genres := c.genreMap(ctx)

	var page rawPage
	params := url.Values{"query": {query}, "include_adult": {"false"}}
	if err := c.get(ctx, "search/multi", params, &page); err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}

	out := []models.Media{}
	for _, it := range page.Results {
		if it.MediaType != string(models.MediaTypeMovie) && it.MediaType != string(models.MediaTypeTV) {
			continue
		}
		out = append(out, normalize(it, genres))
	}
	return out, nil
}

func (c *Client) Details(ctx context.Context, id int, mediaType models.MediaType) (*models.Media, error) {
	genres := c.genreMap(ctx)

	endpoint := fmt.Sprintf("%s/%d", mediaType, id)
	params := url.Values{"append_to_response": {"credits,videos,recommendations,external_ids"}}
	var raw rawMedia
	if err := c.get(ctx, endpoint, params, &raw); err != nil {
		return nil, fmt.Errorf("get %s %d: %w", mediaType, id, err)
	}
	raw.MediaType = string(mediaType)

	m := normalize(raw, genres)
	return &m, nil
}

func (c *Client) SeasonEpisodes(ctx context.Context, tvID, season int) ([]models.Episode, error) {
	var body struct {
		Episodes []rawEpisode `json:"episodes"`
	}
	if err := c.get(ctx, fmt.Sprintf("tv/%d/season/%d", tvID, season), nil, &body); err != nil {
		return nil, fmt.Errorf("get season %d of tv %d: %w", season, tvID, err)
	}

	out := make([]models.Episode, 0, len(body.Episodes))
	for _, ep := range body.Episodes {
		out = append(out, normalizeEpisode(ep))
	}
	return out, nil
}

// FindByIMDb resolves an IMDb id to a TMDB id, preferring movie matches.
// Found is false when neither list has a match.
func (c *Client) FindByIMDb(ctx context.Context, imdbID string) (id int, mediaType models.MediaType, found bool, err error) {
	var body struct {
		MovieResults []rawMedia `json:"movie_results"`
		TVResults    []rawMedia `json:"tv_results"`
	}
	params := url.Values{"external_source": {"imdb_id"}}
	if err := c.get(ctx, "find/"+url.PathEscape(imdbID), params, &body); err != nil {
		return 0, "", false, fmt.Errorf("find %s: %w", imdbID, err)
	}

	switch {
	case len(body.MovieResults) > 0:
		return body.MovieResults[0].ID, models.MediaTypeMovie, true, nil
	case len(body.TVResults) > 0:
		return body.TVResults[0].ID, models.MediaTypeTV, true, nil
	default:
		return 0, "", false, nil
	}
}

type LibraryFilter struct {
	Type models.MediaType
	Year string
	// Ascending sorts oldest first; the default is newest first.
	Ascending bool
}

// Library merges the home rows into one list, keeping the first occurrence
// of each id, then filters and sorts by release date.
func (c *Client) Library(ctx context.Context, f LibraryFilter) ([]models.Media, error) {
	home, err := c.HomePage(ctx)
	if err != nil {
		return nil, fmt.Errorf("load library: %w", err)
	}
	return FilterLibrary(MergeRows(home), f), nil
}

func MergeRows(home *models.HomePageData) []models.Media {
	seen := map[int]bool{}
	out := []models.Media{}
	for _, row := range [][]models.Media{home.Trending, home.PopularMovies, home.TopRatedTV, home.UpcomingMovies} {
		for _, m := range row {
			if seen[m.ID] {
				continue
			}
			seen[m.ID] = true
			out = append(out, m)
		}
	}
	return out
}

// FilterLibrary keeps titles matching f and orders them by release date.
// Titles without a date cannot be placed, so they follow the dated ones in
// their merged order.
func FilterLibrary(list []models.Media, f LibraryFilter) []models.Media {
	dated := make([]models.Media, 0, len(list))
	var undated []models.Media
	for _, m := range list {
		if f.Type != "" && m.MediaType != f.Type {
			continue
		}
		if f.Year != "" && !strings.HasPrefix(m.ReleaseDate, f.Year) {
			continue
		}
		if m.ReleaseDate == "" {
			undated = append(undated, m)
			continue
		}
		dated = append(dated, m)
	}

	sort.SliceStable(dated, func(i, j int) bool {
		if f.Ascending {
			return dated[i].ReleaseDate < dated[j].ReleaseDate
		}
		return dated[i].ReleaseDate > dated[j].ReleaseDate
	})
	return append(dated, undated...)
}

// ParseLibraryFilter reads type, year and sort from query-style values.
func ParseLibraryFilter(typ, year, order string) (LibraryFilter, error) {
	var f LibraryFilter
	if typ != "" {
		mt, ok := models.ParseMediaType(typ)
		if !ok {
			return f, fmt.Errorf("unknown type %q", typ)
		}
		f.Type = mt
	}
	if year != "" {
		if _, err := strconv.Atoi(year); err != nil || len(year) != 4 {
			return f, fmt.Errorf("invalid year %q", year)
		}
		f.Year = year
	}
	switch order {
	case "", "desc":
	case "asc":
		f.Ascending = true
	default:
		return f, fmt.Errorf("unknown sort %q", order)
	}
	return f, nil
}
