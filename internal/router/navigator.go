package router

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"animeverse/internal/catalog"
	"animeverse/pkg/models"
)

type Status string

const (
	StatusLoading Status = "loading"
	StatusReady   Status = "ready"
	StatusEmpty   Status = "empty"
	StatusError   Status = "error"
)

const (
	msgLoadFailed    = "Failed to load data. Please check your API key and network connection."
	msgSearchFailed  = "Failed to perform search. Please try again."
	msgDetailsFailed = "Could not load details for this title."
	msgNoResults     = "No results found."
	msgEmptyList     = "Your list is empty."
	msgEmptyLibrary  = "Try adjusting your filters to find what you're looking for."
)

// Catalog is what the navigator reads from the catalog client.
type Catalog interface {
	HomePage(ctx context.Context) (*models.HomePageData, error)
	KidsHomePage(ctx context.Context) (*models.HomePageData, error)
	DiscoverPage(ctx context.Context) *models.DiscoverPageData
	Search(ctx context.Context, query string) ([]models.Media, error)
	Details(ctx context.Context, id int, mediaType models.MediaType) (*models.Media, error)
	Library(ctx context.Context, f catalog.LibraryFilter) ([]models.Media, error)
}

type MyLister interface {
	MyList(ctx context.Context, profileID string) ([]models.Media, error)
	InMyList(ctx context.Context, profileID string, id int) (bool, error)
}

type DetailsPayload struct {
	Media         *models.Media   `json:"media"`
	ValidSeasons  []models.Season `json:"valid_seasons"`
	InitialSeason int             `json:"initial_season"`
	Trailer       *models.Video   `json:"trailer,omitempty"`
	InList        bool            `json:"in_list"`
}

// Screen is the render outcome of the current view.
type Screen struct {
	View     View                     `json:"view"`
	Status   Status                   `json:"status"`
	Message  string                   `json:"message,omitempty"`
	Home     *models.HomePageData     `json:"home,omitempty"`
	Discover *models.DiscoverPageData `json:"discover,omitempty"`
	Details  *DetailsPayload          `json:"details,omitempty"`
	Items    []models.Media           `json:"items,omitempty"`
}

// Navigator holds one viewer's navigation state. Loads run outside the lock;
// results are written back when they arrive.
type Navigator struct {
	Catalog Catalog
	Lists   MyLister
	Log     logrus.FieldLogger

	mu        sync.Mutex
	profileID string
	kids      bool
	view      View
	// epoch changes on Reset; loads started under an older epoch are dropped.
	epoch uint64

	home        *models.HomePageData
	homeErr     error
	homeLoading bool

	discover        *models.DiscoverPageData
	discoverLoading bool

	// detailSeq numbers details fetches so late answers can be spotted.
	detailSeq     uint64
	detail        *models.Media
	detailLoading bool

	results       []models.Media
	searchErr     error
	searchLoading bool

	library        []models.Media
	libraryErr     error
	libraryLoading bool
}

func NewNavigator(cat Catalog, lists MyLister, log logrus.FieldLogger) *Navigator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Navigator{
		Catalog: cat,
		Lists:   lists,
		Log:     log.WithField("component", "navigator"),
		view:    View{Page: PageHome},
	}
}

// Reset starts over for a newly active profile: back to home with that
// profile's home rows.
func (n *Navigator) Reset(ctx context.Context, profileID string, kids bool) Screen {
	n.mu.Lock()
	n.profileID = profileID
	n.kids = kids
	n.epoch++
	n.view = View{Page: PageHome}
	n.home, n.homeErr, n.homeLoading = nil, nil, false
	n.discover, n.discoverLoading = nil, false
	n.detail = nil
	n.detailLoading = false
	n.results, n.searchErr, n.searchLoading = nil, nil, false
	n.library, n.libraryErr, n.libraryLoading = nil, nil, false
	n.mu.Unlock()

	n.loadHome(ctx)
	return n.Screen(ctx)
}

func (n *Navigator) View() View {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.view
}

// HandleHash follows a fragment change. It is ignored while a modal page is
// open.
func (n *Navigator) HandleHash(ctx context.Context, fragment string) Screen {
	n.mu.Lock()
	if n.view.Page.IsModal() {
		n.mu.Unlock()
		return n.Screen(ctx)
	}
	v := Parse(fragment)
	n.view = v
	n.mu.Unlock()

	switch v.Page {
	case PageHome:
		n.mu.Lock()
		need := n.home == nil && !n.homeLoading
		n.mu.Unlock()
		if need {
			n.loadHome(ctx)
		}
	case PageDetails:
		n.loadDetails(ctx, v.MediaID, v.MediaType)
	case PageSearch:
		n.loadSearch(ctx, v.Query)
	case PageLibrary:
		n.loadLibrary(ctx)
	case PageDiscover:
		n.loadDiscover(ctx)
	}
	return n.Screen(ctx)
}

// OpenModal enters one of the pages that are not reachable by fragment.
func (n *Navigator) OpenModal(ctx context.Context, page Page) (Screen, error) {
	if !page.IsModal() {
		return Screen{}, fmt.Errorf("page %q is not a modal page", page)
	}
	n.mu.Lock()
	n.view = View{Page: page}
	n.mu.Unlock()
	return n.Screen(ctx), nil
}

func (n *Navigator) ReturnHome(ctx context.Context) Screen {
	n.mu.Lock()
	n.view = View{Page: PageHome}
	need := n.home == nil && !n.homeLoading
	n.mu.Unlock()
	if need {
		n.loadHome(ctx)
	}
	return n.Screen(ctx)
}

func (n *Navigator) Screen(ctx context.Context) Screen {
	n.mu.Lock()
	defer n.mu.Unlock()

	s := Screen{View: n.view, Status: StatusReady}
	switch n.view.Page {
	case PageHome:
		switch {
		case n.homeLoading:
			s.Status = StatusLoading
		case n.homeErr != nil || n.home == nil:
			s.Status, s.Message = StatusError, msgLoadFailed
		default:
			s.Home = n.home
		}
	case PageDetails:
		switch {
		case n.detailLoading:
			s.Status = StatusLoading
		case n.detail == nil:
			s.Status, s.Message = StatusError, msgDetailsFailed
		default:
			d := *n.detail
			s.Details = &DetailsPayload{
				Media:         &d,
				ValidSeasons:  catalog.ValidSeasons(d),
				InitialSeason: catalog.InitialSeason(d),
				Trailer:       catalog.Trailer(d),
			}
			if n.Lists != nil {
				in, err := n.Lists.InMyList(ctx, n.profileID, d.ID)
				if err != nil {
					n.Log.WithError(err).WithField("media_id", d.ID).Warn("my list lookup failed")
				}
				s.Details.InList = in
			}
		}
	case PageSearch:
		switch {
		case n.searchLoading:
			s.Status = StatusLoading
		case n.searchErr != nil:
			s.Status, s.Message = StatusError, msgSearchFailed
		case len(n.results) == 0:
			s.Status, s.Message = StatusEmpty, msgNoResults
		default:
			s.Items = n.results
		}
	case PageLibrary:
		switch {
		case n.libraryLoading:
			s.Status = StatusLoading
		case n.libraryErr != nil:
			s.Status, s.Message = StatusError, msgLoadFailed
		case len(n.library) == 0:
			s.Status, s.Message = StatusEmpty, msgEmptyLibrary
		default:
			s.Items = n.library
		}
	case PageDiscover:
		if n.discoverLoading || n.discover == nil {
			s.Status = StatusLoading
		} else {
			s.Discover = n.discover
		}
	case PageMyList:
		if n.Lists == nil {
			s.Status, s.Message = StatusEmpty, msgEmptyList
			break
		}
		list, err := n.Lists.MyList(ctx, n.profileID)
		switch {
		case err != nil:
			s.Status, s.Message = StatusError, err.Error()
		case len(list) == 0:
			s.Status, s.Message = StatusEmpty, msgEmptyList
		default:
			s.Items = list
		}
	}
	return s
}

func (n *Navigator) loadHome(ctx context.Context) {
	n.mu.Lock()
	n.homeLoading = true
	kids, epoch := n.kids, n.epoch
	n.mu.Unlock()

	var (
		home *models.HomePageData
		err  error
	)
	if kids {
		home, err = n.Catalog.KidsHomePage(ctx)
		if err == nil {
			home = catalog.KidsRows(home)
		}
	} else {
		home, err = n.Catalog.HomePage(ctx)
	}
	if err != nil {
		n.Log.WithError(err).Error("home page load failed")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if epoch != n.epoch {
		n.Log.Debug("dropping home rows loaded for a previous profile")
		return
	}
	n.home, n.homeErr = home, err
	n.homeLoading = false
}

// loadDetails applies whatever answer arrives, even one for an earlier
// navigation; a superseded answer is only logged.
func (n *Navigator) loadDetails(ctx context.Context, id int, mt models.MediaType) {
	n.mu.Lock()
	n.detailSeq++
	seq := n.detailSeq
	n.detailLoading = true
	n.mu.Unlock()

	m, err := n.Catalog.Details(ctx, id, mt)
	log := n.Log.WithFields(logrus.Fields{"media_id": id, "media_type": mt})
	if err != nil {
		log.WithError(err).Error("details load failed")
		m = nil
	}

	n.mu.Lock()
	if seq != n.detailSeq {
		log.WithField("latest_seq", n.detailSeq).Warn("stale details response applied")
	}
	n.detail = m
	n.detailLoading = false
	n.mu.Unlock()
}

func (n *Navigator) loadSearch(ctx context.Context, query string) {
	n.mu.Lock()
	n.searchLoading = true
	kids, epoch := n.kids, n.epoch
	n.mu.Unlock()

	results, err := n.Catalog.Search(ctx, query)
	if err != nil {
		n.Log.WithError(err).WithField("query", query).Error("search failed")
	} else if kids {
		results = catalog.KidsSearch(results)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if epoch != n.epoch {
		return
	}
	n.results, n.searchErr = results, err
	n.searchLoading = false
}

// loadLibrary builds a kids profile's library from the kids rows only.
func (n *Navigator) loadLibrary(ctx context.Context) {
	n.mu.Lock()
	n.libraryLoading = true
	kids, epoch := n.kids, n.epoch
	n.mu.Unlock()

	var (
		items []models.Media
		err   error
	)
	if kids {
		var home *models.HomePageData
		home, err = n.Catalog.KidsHomePage(ctx)
		if err == nil {
			items = catalog.FilterLibrary(catalog.MergeRows(catalog.KidsRows(home)), catalog.LibraryFilter{})
		}
	} else {
		items, err = n.Catalog.Library(ctx, catalog.LibraryFilter{})
	}
	if err != nil {
		n.Log.WithError(err).Error("library load failed")
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if epoch != n.epoch {
		return
	}
	n.library, n.libraryErr = items, err
	n.libraryLoading = false
}

func (n *Navigator) loadDiscover(ctx context.Context) {
	n.mu.Lock()
	n.discoverLoading = true
	epoch := n.epoch
	n.mu.Unlock()

	d := n.Catalog.DiscoverPage(ctx)

	n.mu.Lock()
	defer n.mu.Unlock()
	if epoch != n.epoch {
		return
	}
	n.discover = d
	n.discoverLoading = false
}
