package watchstate

import "animeverse/pkg/models"

const (
	MaxContinueWatching = 10
	summaryGenres       = 3
)

// AddContinueWatching puts entry at the front, dropping any older entry for the
// same (id, mediaType) pair, and keeps at most MaxContinueWatching rows.
func AddContinueWatching(list []models.ContinueWatchingEntry, entry models.ContinueWatchingEntry) []models.ContinueWatchingEntry {
	out := make([]models.ContinueWatchingEntry, 0, len(list)+1)
	out = append(out, entry)
	for _, e := range list {
		if e.ID == entry.ID && e.MediaType == entry.MediaType {
			continue
		}
		out = append(out, e)
	}
	if len(out) > MaxContinueWatching {
		out = out[:MaxContinueWatching]
	}
	return out
}

// ToggleMyList removes the item with media's id, or prepends its summary when
// absent. The returned bool is true when the item was added.
func ToggleMyList(list []models.Media, media models.Media) ([]models.Media, bool) {
	out := make([]models.Media, 0, len(list)+1)
	removed := false
	for _, m := range list {
		if m.ID == media.ID {
			removed = true
			continue
		}
		out = append(out, m)
	}
	if removed {
		return out, false
	}
	return append([]models.Media{Summarize(media)}, out...), true
}

func InList(list []models.Media, id int) bool {
	for _, m := range list {
		if m.ID == id {
			return true
		}
	}
	return false
}

// Summarize trims a catalog record down to what a my-list row stores.
func Summarize(m models.Media) models.Media {
	genres := m.Genres
	if len(genres) > summaryGenres {
		genres = genres[:summaryGenres]
	}
	return models.Media{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		VoteAverage:  m.VoteAverage,
		ReleaseDate:  m.ReleaseDate,
		Genres:       append([]models.Genre{}, genres...),
		MediaType:    m.MediaType,
		IMDbID:       m.IMDbID,
	}
}
