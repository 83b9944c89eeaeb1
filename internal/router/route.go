// Package router maps URL fragments to views and drives what each view shows.
package router

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"animeverse/pkg/models"
)

type Page string

const (
	PageHome           Page = "home"
	PageDetails        Page = "details"
	PageSearch         Page = "search"
	PageLibrary        Page = "library"
	PageDiscover       Page = "discover"
	PageMyList         Page = "myList"
	PageManageProfiles Page = "manageProfiles"
	PageAccount        Page = "account"
)

// IsModal reports pages that are entered explicitly and cannot be restored
// from a fragment.
func (p Page) IsModal() bool {
	return p == PageManageProfiles || p == PageAccount
}

type View struct {
	Page      Page             `json:"page"`
	MediaID   int              `json:"mediaId,omitempty"`
	MediaType models.MediaType `json:"mediaType,omitempty"`
	Query     string           `json:"query,omitempty"`
}

var (
	detailsRe  = regexp.MustCompile(`^#/(movie|tv)/(\d+)`)
	searchRe   = regexp.MustCompile(`^#/search/(.+)$`)
	libraryRe  = regexp.MustCompile(`^#/library$`)
	discoverRe = regexp.MustCompile(`^#/discover$`)
	myListRe   = regexp.MustCompile(`^#/mylist$`)
)

// Parse maps a fragment such as "#/tv/1399" to its view. Anything that does
// not match a known route is home.
func Parse(fragment string) View {
	if m := detailsRe.FindStringSubmatch(fragment); m != nil {
		id, err := strconv.Atoi(m[2])
		if err == nil {
			return View{Page: PageDetails, MediaID: id, MediaType: models.MediaType(m[1])}
		}
	}
	if m := searchRe.FindStringSubmatch(fragment); m != nil {
		q, err := url.PathUnescape(m[1])
		if err != nil {
			q = m[1]
		}
		return View{Page: PageSearch, Query: q}
	}
	switch {
	case libraryRe.MatchString(fragment):
		return View{Page: PageLibrary}
	case discoverRe.MatchString(fragment):
		return View{Page: PageDiscover}
	case myListRe.MatchString(fragment):
		return View{Page: PageMyList}
	}
	return View{Page: PageHome}
}

func DetailsHash(m models.Media) string {
	return fmt.Sprintf("#/%s/%d", m.MediaType, m.ID)
}

// SearchHash encodes query; a blank query goes back to "#".
func SearchHash(query string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return "#"
	}
	return "#/search/" + url.PathEscape(q)
}
