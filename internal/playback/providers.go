// Package playback builds third-party embed URLs for a title and remembers
// which provider each profile uses.
package playback

import (
	"fmt"
	"strconv"
	"strings"

	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type IDKind string

const (
	IDIMDb IDKind = "imdb"
	IDTMDB IDKind = "tmdb"
)

const (
	VidsrcTo   = "Vidsrc.to (IMDb)"
	VidFast    = "VidFast"
	MultiEmbed = "MultiEmbed"

	// MultiEmbedServers is how many MultiEmbed mirrors can be picked.
	MultiEmbedServers = 5
)

type Provider struct {
	Name     string `json:"name"`
	Template string `json:"template"`
	Kind     IDKind `json:"id_kind"`
}

// Providers are listed in menu order; the first is the default.
var Providers = []Provider{
	{Name: VidsrcTo, Template: "https://vidsrc.to/embed/{path}", Kind: IDIMDb},
	{Name: VidFast, Template: "https://vidfast.pro/{path}", Kind: IDIMDb},
	{Name: MultiEmbed, Template: "https://multiembed.mov/?video_id={path}&tmdb=1", Kind: IDTMDB},
}

func Default() Provider { return Providers[0] }

func Lookup(name string) (Provider, bool) {
	for _, p := range Providers {
		if p.Name == name {
			return p, true
		}
	}
	return Provider{}, false
}

// BuildEmbedURL renders the iframe URL for m on provider p. Shows without an
// episode start at S1 E1. server only matters for MultiEmbed.
func BuildEmbedURL(p Provider, m models.Media, ep *models.Episode, server int) (string, error) {
	isTV := m.MediaType == models.MediaTypeTV
	season, episode := 1, 1
	if ep != nil {
		season, episode = ep.SeasonNumber, ep.EpisodeNumber
	}

	switch p.Kind {
	case IDTMDB:
		if m.ID <= 0 {
			return "", apperr.ErrMissingTMDBID
		}
		if server < 1 {
			server = 1
		}
		u := strings.Replace(p.Template, "{path}", strconv.Itoa(m.ID), 1)
		if isTV && ep != nil && ep.SeasonNumber > 0 && ep.EpisodeNumber > 0 {
			u += fmt.Sprintf("&s=%d&e=%d", ep.SeasonNumber, ep.EpisodeNumber)
		}
		u += fmt.Sprintf("&server=%d", server)
		return withAutoplay(u), nil

	case IDIMDb:
		imdb := strings.TrimSpace(m.IMDbID)
		if imdb == "" {
			return "", apperr.ErrMissingIMDbID
		}
		path := "movie/" + imdb
		if isTV {
			path = fmt.Sprintf("tv/%s/%d/%d", imdb, season, episode)
		}
		u := strings.Replace(p.Template, "{path}", path, 1)
		if p.Name == VidsrcTo {
			return u, nil
		}
		return withAutoplay(u), nil
	}
	return "", fmt.Errorf("provider %q: unknown id kind %q", p.Name, p.Kind)
}

func withAutoplay(u string) string {
	if !strings.Contains(u, "autoplay=1") {
		u += sep(u) + "autoplay=1"
	}
	if !strings.Contains(u, "muted=1") {
		u += sep(u) + "muted=1"
	}
	return u
}

func sep(u string) string {
	if strings.Contains(u, "?") {
		return "&"
	}
	return "?"
}

// Title is what the player header shows.
func Title(m models.Media, ep *models.Episode) string {
	if m.MediaType == models.MediaTypeTV && ep != nil {
		return fmt.Sprintf("%s - S%d E%d", m.Title, ep.SeasonNumber, ep.EpisodeNumber)
	}
	return m.Title
}
