package models

// ContinueWatchingEntry is one row of a profile's continue-watching list.
// UpdatedAt is epoch milliseconds.
type ContinueWatchingEntry struct {
	ID        int       `json:"id"`
	MediaType MediaType `json:"mediaType"`
	Title     string    `json:"title"`
	Poster    string    `json:"poster"`
	IMDbID    string    `json:"imdb_id,omitempty"`
	Season    int       `json:"season,omitempty"`
	Episode   int       `json:"episode,omitempty"`
	UpdatedAt int64     `json:"updatedAt"`
}

// Media rebuilds the minimal record needed to resume playback.
func (e ContinueWatchingEntry) Media() Media {
	return Media{
		ID:         e.ID,
		MediaType:  e.MediaType,
		Title:      e.Title,
		PosterPath: e.Poster,
		IMDbID:     e.IMDbID,
		Genres:     []Genre{},
	}
}

// ResumeEpisode is only set when both season and episode are known.
func (e ContinueWatchingEntry) ResumeEpisode() *Episode {
	if e.Season == 0 || e.Episode == 0 {
		return nil
	}
	return &Episode{SeasonNumber: e.Season, EpisodeNumber: e.Episode}
}

// WatchState is everything persisted per profile.
type WatchState struct {
	ProfileID        string                  `json:"profile_id"`
	ContinueWatching []ContinueWatchingEntry `json:"continue_watching"`
	MyList           []Media                 `json:"my_list"`
}
