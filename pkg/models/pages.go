package models

type HomePageData struct {
	Trending       []Media `json:"trending"`
	PopularMovies  []Media `json:"popularMovies"`
	TopRatedTV     []Media `json:"topRatedTv"`
	UpcomingMovies []Media `json:"upcomingMovies"`
}

type DiscoverPageData struct {
	Top10Week       []Media `json:"top10Week"`
	AllTimeGrossing []Media `json:"allTimeGrossing"`
	PopularAnime    []Media `json:"popularAnime"`
}
