package catalog

import (
	"strings"

	"animeverse/pkg/models"
)

var kidsSearchGenres = map[string]bool{
	"Animation": true,
	"Family":    true,
	"Kids":      true,
	"Children":  true,
}

func isKidsRowGenre(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "kids") || strings.Contains(n, "family")
}

// KidsRows keeps only titles tagged with a kids or family genre in every
// home row.
func KidsRows(home *models.HomePageData) *models.HomePageData {
	return &models.HomePageData{
		Trending:       filterGenres(home.Trending, isKidsRowGenre),
		PopularMovies:  filterGenres(home.PopularMovies, isKidsRowGenre),
		TopRatedTV:     filterGenres(home.TopRatedTV, isKidsRowGenre),
		UpcomingMovies: filterGenres(home.UpcomingMovies, isKidsRowGenre),
	}
}

// KidsSearch keeps results with an Animation, Family, Kids or Children genre.
func KidsSearch(results []models.Media) []models.Media {
	return filterGenres(results, func(name string) bool { return kidsSearchGenres[name] })
}

func filterGenres(list []models.Media, match func(string) bool) []models.Media {
	out := []models.Media{}
	for _, m := range list {
		if m.HasGenre(match) {
			out = append(out, m)
		}
	}
	return out
}

// ValidSeasons drops specials and empty seasons.
func ValidSeasons(m models.Media) []models.Season {
	out := []models.Season{}
	for _, s := range m.Seasons {
		if s.SeasonNumber > 0 && s.EpisodeCount > 0 {
			out = append(out, s)
		}
	}
	return out
}

// InitialSeason picks season 1 when present, else the first valid season.
// It returns 0 when the show has no valid seasons.
func InitialSeason(m models.Media) int {
	valid := ValidSeasons(m)
	if len(valid) == 0 {
		return 0
	}
	for _, s := range valid {
		if s.SeasonNumber == 1 {
			return 1
		}
	}
	return valid[0].SeasonNumber
}

// Trailer returns the first YouTube trailer, if any.
func Trailer(m models.Media) *models.Video {
	if m.Videos == nil {
		return nil
	}
	for _, v := range m.Videos.Results {
		if v.Site == "YouTube" && v.Type == "Trailer" {
			v := v
			return &v
		}
	}
	return nil
}
