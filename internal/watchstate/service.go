// Package watchstate keeps each profile's continue-watching and my-list rows.
package watchstate

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"animeverse/internal/storage"
	synchub "animeverse/internal/sync"
	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type Service struct {
	Store storage.Store
	Hub   synchub.Publisher
	Log   logrus.FieldLogger
	Now   func() time.Time

	// one read-modify-write at a time
	mu sync.Mutex
}

func NewService(store storage.Store, hub synchub.Publisher, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Store: store,
		Hub:   hub,
		Log:   log.WithField("component", "watchstate"),
		Now:   time.Now,
	}
}

func (s *Service) ContinueWatching(ctx context.Context, profileID string) ([]models.ContinueWatchingEntry, error) {
	if err := requireProfile(profileID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadContinue(ctx, profileID), nil
}

func (s *Service) MyList(ctx context.Context, profileID string) ([]models.Media, error) {
	if err := requireProfile(profileID); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadMyList(ctx, profileID), nil
}

// State loads both lists for one profile.
func (s *Service) State(ctx context.Context, profileID string) (models.WatchState, error) {
	if err := requireProfile(profileID); err != nil {
		return models.WatchState{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return models.WatchState{
		ProfileID:        profileID,
		ContinueWatching: s.loadContinue(ctx, profileID),
		MyList:           s.loadMyList(ctx, profileID),
	}, nil
}

// RecordPlayback stores a continue-watching row for media. ep may be nil for
// movies or when no episode is selected.
func (s *Service) RecordPlayback(ctx context.Context, profileID string, media models.Media, ep *models.Episode) (models.ContinueWatchingEntry, error) {
	if err := requireProfile(profileID); err != nil {
		return models.ContinueWatchingEntry{}, err
	}
	if media.ID <= 0 {
		return models.ContinueWatchingEntry{}, fmt.Errorf("record playback: %w: media id required", apperr.ErrInvalidInput)
	}
	if _, ok := models.ParseMediaType(string(media.MediaType)); !ok {
		return models.ContinueWatchingEntry{}, fmt.Errorf("record playback: %w: media type %q", apperr.ErrInvalidInput, media.MediaType)
	}

	entry := models.ContinueWatchingEntry{
		ID:        media.ID,
		MediaType: media.MediaType,
		Title:     media.Title,
		Poster:    media.PosterPath,
		IMDbID:    media.IMDbID,
		UpdatedAt: s.Now().UnixMilli(),
	}
	if ep != nil && media.MediaType == models.MediaTypeTV {
		entry.Season = ep.SeasonNumber
		entry.Episode = ep.EpisodeNumber
	}

	s.mu.Lock()
	list := AddContinueWatching(s.loadContinue(ctx, profileID), entry)
	err := storage.SaveJSON(ctx, s.Store, storage.ContinueWatchingKey(profileID), list)
	s.mu.Unlock()
	if err != nil {
		return models.ContinueWatchingEntry{}, fmt.Errorf("record playback: %w", err)
	}

	s.Log.WithFields(logrus.Fields{"profile_id": profileID, "media_id": media.ID}).Debug("continue watching updated")
	synchub.Publish(s.Hub, synchub.WatchEvent{
		Type:      synchub.EventContinueWatchingUpdate,
		ProfileID: profileID,
		MediaID:   entry.ID,
		MediaType: string(entry.MediaType),
		Season:    entry.Season,
		Episode:   entry.Episode,
	})
	return entry, nil
}

func (s *Service) ClearHistory(ctx context.Context, profileID string) error {
	if err := requireProfile(profileID); err != nil {
		return err
	}

	s.mu.Lock()
	err := storage.SaveJSON(ctx, s.Store, storage.ContinueWatchingKey(profileID), []models.ContinueWatchingEntry{})
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear history: %w", err)
	}

	s.Log.WithField("profile_id", profileID).Info("continue watching cleared")
	synchub.Publish(s.Hub, synchub.WatchEvent{Type: synchub.EventContinueWatchingClear, ProfileID: profileID})
	return nil
}

// ToggleMyList adds or removes media and returns whether it is now listed.
func (s *Service) ToggleMyList(ctx context.Context, profileID string, media models.Media) (bool, []models.Media, error) {
	if err := requireProfile(profileID); err != nil {
		return false, nil, err
	}
	if media.ID <= 0 {
		return false, nil, fmt.Errorf("toggle my list: %w: media id required", apperr.ErrInvalidInput)
	}

	s.mu.Lock()
	list, added := ToggleMyList(s.loadMyList(ctx, profileID), media)
	err := storage.SaveJSON(ctx, s.Store, storage.MyListKey(profileID), list)
	s.mu.Unlock()
	if err != nil {
		return false, nil, fmt.Errorf("toggle my list: %w", err)
	}

	ev := synchub.WatchEvent{
		Type:      synchub.EventMyListRemove,
		ProfileID: profileID,
		MediaID:   media.ID,
		MediaType: string(media.MediaType),
	}
	if added {
		ev.Type = synchub.EventMyListAdd
	}
	synchub.Publish(s.Hub, ev)
	return added, list, nil
}

func (s *Service) InMyList(ctx context.Context, profileID string, id int) (bool, error) {
	list, err := s.MyList(ctx, profileID)
	if err != nil {
		return false, err
	}
	return InList(list, id), nil
}

func (s *Service) loadContinue(ctx context.Context, profileID string) []models.ContinueWatchingEntry {
	list := []models.ContinueWatchingEntry{}
	if !storage.LoadJSON(ctx, s.Store, s.Log, storage.ContinueWatchingKey(profileID), &list) || list == nil {
		return []models.ContinueWatchingEntry{}
	}
	return list
}

func (s *Service) loadMyList(ctx context.Context, profileID string) []models.Media {
	list := []models.Media{}
	if !storage.LoadJSON(ctx, s.Store, s.Log, storage.MyListKey(profileID), &list) || list == nil {
		return []models.Media{}
	}
	return list
}

func requireProfile(profileID string) error {
	if strings.TrimSpace(profileID) == "" {
		return apperr.ErrNoActiveProfile
	}
	return nil
}
