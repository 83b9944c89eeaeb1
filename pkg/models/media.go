package models

type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// ParseMediaType accepts "movie" and "tv" only.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaTypeMovie, MediaTypeTV:
		return MediaType(s), true
	default:
		return "", false
	}
}

type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path,omitempty"`
}

type CrewMember struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Job         string `json:"job"`
	ProfilePath string `json:"profile_path,omitempty"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

type Video struct {
	ID   string `json:"id"`
	Key  string `json:"key"`
	Name string `json:"name"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type Videos struct {
	Results []Video `json:"results"`
}

type Season struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	SeasonNumber int    `json:"season_number"`
	EpisodeCount int    `json:"episode_count"`
	PosterPath   string `json:"poster_path,omitempty"`
	AirDate      string `json:"air_date,omitempty"`
}

// Media is the normalized catalog record. It is rebuilt from every catalog
// response and only persisted as a trimmed summary inside list entries.
type Media struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Overview        string    `json:"overview"`
	PosterPath      string    `json:"poster_path"`
	BackdropPath    string    `json:"backdrop_path"`
	VoteAverage     float64   `json:"vote_average"`
	ReleaseDate     string    `json:"release_date"`
	Genres          []Genre   `json:"genres"`
	MediaType       MediaType `json:"media_type"`
	IMDbID          string    `json:"imdb_id,omitempty"`
	Seasons         []Season  `json:"seasons,omitempty"`
	Credits         *Credits  `json:"credits,omitempty"`
	Videos          *Videos   `json:"videos,omitempty"`
	Recommendations []Media   `json:"recommendations,omitempty"`

	Tagline          string `json:"tagline,omitempty"`
	Status           string `json:"status,omitempty"`
	NumberOfSeasons  int    `json:"number_of_seasons,omitempty"`
	NumberOfEpisodes int    `json:"number_of_episodes,omitempty"`
}

// HasGenre reports whether any genre name satisfies match.
func (m Media) HasGenre(match func(name string) bool) bool {
	for _, g := range m.Genres {
		if match(g.Name) {
			return true
		}
	}
	return false
}

type Episode struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Overview      string  `json:"overview"`
	EpisodeNumber int     `json:"episode_number"`
	SeasonNumber  int     `json:"season_number"`
	StillPath     string  `json:"still_path,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
}
