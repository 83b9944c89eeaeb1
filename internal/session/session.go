// Package session tracks the single active profile of this device.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"animeverse/internal/auth"
	"animeverse/internal/router"
	synchub "animeverse/internal/sync"
	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

type ProfileSource interface {
	Get(ctx context.Context, id string) (*models.Profile, error)
	VerifyPIN(ctx context.Context, id, pin string) error
}

type StateLoader interface {
	State(ctx context.Context, profileID string) (models.WatchState, error)
}

// Activation is returned to the client that switched profiles.
type Activation struct {
	Profile   models.PublicProfile `json:"profile"`
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	State     models.WatchState    `json:"state"`
	Screen    router.Screen        `json:"screen"`
}

type Session struct {
	Profiles ProfileSource
	Watch    StateLoader
	Tokens   auth.TokenService
	Nav      *router.Navigator
	Hub      synchub.Publisher
	Log      logrus.FieldLogger

	mu         sync.RWMutex
	active     *models.Profile
	generation uint64
}

func New(profiles ProfileSource, watch StateLoader, tokens auth.TokenService, nav *router.Navigator, hub synchub.Publisher, log logrus.FieldLogger) *Session {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{
		Profiles: profiles,
		Watch:    watch,
		Tokens:   tokens,
		Nav:      nav,
		Hub:      hub,
		Log:      log.WithField("component", "session"),
	}
}

// Activate makes profileID the active profile. Navigation restarts at home
// and the profile's own watch state is loaded.
func (s *Session) Activate(ctx context.Context, profileID, pin string) (*Activation, error) {
	p, err := s.Profiles.Get(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", profileID, err)
	}
	if p == nil {
		return nil, fmt.Errorf("activate %s: %w", profileID, apperr.ErrNotFound)
	}
	if err := s.Profiles.VerifyPIN(ctx, profileID, pin); err != nil {
		return nil, fmt.Errorf("activate %s: %w", profileID, err)
	}

	state, err := s.Watch.State(ctx, profileID)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", profileID, err)
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation
	active := *p
	s.active = &active
	s.mu.Unlock()

	token, exp, err := s.Tokens.Sign(active, gen)
	if err != nil {
		return nil, fmt.Errorf("activate %s: %w", profileID, err)
	}

	screen := s.Nav.Reset(ctx, active.ID, active.Kids)

	s.Log.WithFields(logrus.Fields{"profile_id": active.ID, "generation": gen}).Info("profile activated")
	synchub.Publish(s.Hub, synchub.WatchEvent{Type: synchub.EventProfileActivate, ProfileID: active.ID})

	return &Activation{
		Profile:   active.Public(),
		Token:     token,
		ExpiresAt: exp,
		State:     state,
		Screen:    screen,
	}, nil
}

// SignOut clears the active profile. It is a no-op when nobody is active.
func (s *Session) SignOut() {
	s.mu.Lock()
	prev := s.active
	s.active = nil
	s.generation++
	s.mu.Unlock()

	if prev == nil {
		return
	}
	s.Log.WithField("profile_id", prev.ID).Info("signed out")
	synchub.Publish(s.Hub, synchub.WatchEvent{Type: synchub.EventProfileSignOut, ProfileID: prev.ID})
}

// Active returns a copy of the active profile, or nil.
func (s *Session) Active() *models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return nil
	}
	p := *s.active
	return &p
}

func (s *Session) IsCurrent(profileID string, generation uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active != nil && s.active.ID == profileID && s.generation == generation
}

func (s *Session) ProfileUpdated(p models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil && s.active.ID == p.ID {
		updated := p
		s.active = &updated
	}
}

func (s *Session) ProfileDeleted(id string) {
	s.mu.RLock()
	isActive := s.active != nil && s.active.ID == id
	s.mu.RUnlock()
	if isActive {
		s.SignOut()
	}
}
