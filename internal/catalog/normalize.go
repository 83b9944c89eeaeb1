package catalog

import (
	"encoding/json"

	"animeverse/pkg/models"
)

const (
	posterBase        = "https://image.tmdb.org/t/p/w500"
	backdropBase      = "https://image.tmdb.org/t/p/w1280"
	stillBase         = "https://image.tmdb.org/t/p/w300"
	PosterPlaceholder = "https://via.placeholder.com/500x750?text=No+Image"
)

// rawMedia covers list rows and detail payloads for both movies and shows.
type rawMedia struct {
	ID               int             `json:"id"`
	Title            string          `json:"title"`
	Name             string          `json:"name"`
	Overview         string          `json:"overview"`
	PosterPath       string          `json:"poster_path"`
	BackdropPath     string          `json:"backdrop_path"`
	VoteAverage      float64         `json:"vote_average"`
	ReleaseDate      string          `json:"release_date"`
	FirstAirDate     string          `json:"first_air_date"`
	MediaType        string          `json:"media_type"`
	Genres           json.RawMessage `json:"genres"`
	GenreIDs         []int           `json:"genre_ids"`
	Status           string          `json:"status"`
	Tagline          string          `json:"tagline"`
	IMDbID           string          `json:"imdb_id"`
	NumberOfSeasons  int             `json:"number_of_seasons"`
	NumberOfEpisodes int             `json:"number_of_episodes"`
	Seasons          []models.Season `json:"seasons"`
	Credits          *models.Credits `json:"credits"`
	Videos           *models.Videos  `json:"videos"`
	Recommendations  *struct {
		Results []rawMedia `json:"results"`
	} `json:"recommendations"`
	ExternalIDs *struct {
		IMDbID string `json:"imdb_id"`
	} `json:"external_ids"`
}

type rawPage struct {
	Results []rawMedia `json:"results"`
}

type rawEpisode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	StillPath     string  `json:"still_path"`
	VoteAverage   float64 `json:"vote_average"`
}

func normalize(item rawMedia, genreMap map[int]string) models.Media {
	mt := models.MediaType(item.MediaType)
	if mt == "" {
		mt = models.MediaTypeMovie
		if item.FirstAirDate != "" {
			mt = models.MediaTypeTV
		}
	}

	title := item.Title
	if title == "" {
		title = item.Name
	}
	if title == "" {
		title = "Untitled"
	}

	poster := PosterPlaceholder
	if item.PosterPath != "" {
		poster = posterBase + item.PosterPath
	}
	backdrop := ""
	if item.BackdropPath != "" {
		backdrop = backdropBase + item.BackdropPath
	}

	release := item.ReleaseDate
	if release == "" {
		release = item.FirstAirDate
	}

	imdbID := item.IMDbID
	if item.ExternalIDs != nil && item.ExternalIDs.IMDbID != "" {
		imdbID = item.ExternalIDs.IMDbID
	}

	m := models.Media{
		ID:               item.ID,
		Title:            title,
		Overview:         item.Overview,
		PosterPath:       poster,
		BackdropPath:     backdrop,
		VoteAverage:      item.VoteAverage,
		ReleaseDate:      release,
		Genres:           normalizeGenres(item, genreMap),
		MediaType:        mt,
		IMDbID:           imdbID,
		Status:           item.Status,
		Tagline:          item.Tagline,
		NumberOfSeasons:  item.NumberOfSeasons,
		NumberOfEpisodes: item.NumberOfEpisodes,
		Seasons:          item.Seasons,
		Credits:          item.Credits,
		Videos:           item.Videos,
	}
	if item.Recommendations != nil {
		m.Recommendations = normalizeAll(item.Recommendations.Results, genreMap)
	}
	return m
}

// normalizeGenres prefers genre objects and falls back to resolving
// genre_ids, dropping ids the map does not know.
func normalizeGenres(item rawMedia, genreMap map[int]string) []models.Genre {
	var objs []models.Genre
	if len(item.Genres) > 0 && json.Unmarshal(item.Genres, &objs) == nil && len(objs) > 0 {
		return objs
	}

	out := []models.Genre{}
	for _, id := range item.GenreIDs {
		if name, ok := genreMap[id]; ok {
			out = append(out, models.Genre{ID: id, Name: name})
		}
	}
	return out
}

func normalizeAll(items []rawMedia, genreMap map[int]string) []models.Media {
	out := make([]models.Media, 0, len(items))
	for _, it := range items {
		out = append(out, normalize(it, genreMap))
	}
	return out
}

func normalizeEpisode(ep rawEpisode) models.Episode {
	still := ""
	if ep.StillPath != "" {
		still = stillBase + ep.StillPath
	}
	return models.Episode{
		ID:            ep.ID,
		Name:          ep.Name,
		Overview:      ep.Overview,
		EpisodeNumber: ep.EpisodeNumber,
		SeasonNumber:  ep.SeasonNumber,
		StillPath:     still,
		VoteAverage:   ep.VoteAverage,
	}
}
