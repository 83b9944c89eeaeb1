package playback

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type Settings interface {
	Provider(ctx context.Context, profileID string) string
	SetProvider(ctx context.Context, profileID, name string) error
	MultiEmbedServer(ctx context.Context, profileID string) int
	SetMultiEmbedServer(ctx context.Context, profileID string, n int) error
}

type Recorder interface {
	RecordPlayback(ctx context.Context, profileID string, media models.Media, ep *models.Episode) (models.ContinueWatchingEntry, error)
	ContinueWatching(ctx context.Context, profileID string) ([]models.ContinueWatchingEntry, error)
}

type Selection struct {
	Provider Provider `json:"provider"`
	Server   int      `json:"server"`
}

type Playback struct {
	Selection
	URL   string                       `json:"url"`
	Title string                       `json:"title"`
	Entry models.ContinueWatchingEntry `json:"entry"`
}

type Service struct {
	Settings Settings
	Watch    Recorder
	Log      logrus.FieldLogger
}

func NewService(settings Settings, watch Recorder, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{Settings: settings, Watch: watch, Log: log.WithField("component", "playback")}
}

// Selected returns the profile's provider, falling back to the default when
// nothing or an unknown name is stored.
func (s *Service) Selected(ctx context.Context, profileID string) Selection {
	p, ok := Lookup(s.Settings.Provider(ctx, profileID))
	if !ok {
		p = Default()
	}
	sel := Selection{Provider: p, Server: 1}
	if p.Name == MultiEmbed {
		sel.Server = s.Settings.MultiEmbedServer(ctx, profileID)
	}
	return sel
}

// Select switches provider. Leaving MultiEmbed resets its server to 1.
func (s *Service) Select(ctx context.Context, profileID, name string, server int) (Selection, error) {
	p, ok := Lookup(name)
	if !ok {
		return Selection{}, fmt.Errorf("select provider: %w: unknown provider %q", apperr.ErrInvalidInput, name)
	}
	if server == 0 {
		server = 1
	}
	if server < 1 || server > MultiEmbedServers {
		return Selection{}, fmt.Errorf("select provider: %w: server must be 1..%d", apperr.ErrInvalidInput, MultiEmbedServers)
	}
	if p.Name != MultiEmbed {
		server = 1
	}

	if err := s.Settings.SetProvider(ctx, profileID, p.Name); err != nil {
		return Selection{}, err
	}
	if err := s.Settings.SetMultiEmbedServer(ctx, profileID, server); err != nil {
		return Selection{}, err
	}

	s.Log.WithFields(logrus.Fields{"profile_id": profileID, "provider": p.Name, "server": server}).Info("provider selected")
	return Selection{Provider: p, Server: server}, nil
}

// Play records the title in continue watching and renders the embed URL.
// The entry is recorded even when the provider cannot play the title; the
// returned error then says which identifier is missing.
func (s *Service) Play(ctx context.Context, profileID string, m models.Media, ep *models.Episode) (*Playback, error) {
	entry, err := s.Watch.RecordPlayback(ctx, profileID, m, ep)
	if err != nil {
		return nil, fmt.Errorf("play %d: %w", m.ID, err)
	}

	sel := s.Selected(ctx, profileID)
	pb := &Playback{Selection: sel, Title: Title(m, ep), Entry: entry}

	u, err := BuildEmbedURL(sel.Provider, m, ep, sel.Server)
	if err != nil {
		if !errors.Is(err, apperr.ErrMissingIMDbID) && !errors.Is(err, apperr.ErrMissingTMDBID) {
			return nil, fmt.Errorf("play %d: %w", m.ID, err)
		}
		s.Log.WithFields(logrus.Fields{"profile_id": profileID, "media_id": m.ID, "provider": sel.Provider.Name}).Warn(err.Error())
		return pb, err
	}
	pb.URL = u
	return pb, nil
}

// Resume plays a continue-watching entry again, from its saved episode when
// one was recorded.
func (s *Service) Resume(ctx context.Context, profileID string, id int, mt models.MediaType) (*Playback, error) {
	list, err := s.Watch.ContinueWatching(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("resume %d: %w", id, err)
	}
	for _, e := range list {
		if e.ID == id && e.MediaType == mt {
			return s.Play(ctx, profileID, e.Media(), e.ResumeEpisode())
		}
	}
	return nil, fmt.Errorf("resume %s %d: %w", mt, id, apperr.ErrNotFound)
}
