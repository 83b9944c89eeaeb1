// Package profile owns the viewer profiles persisted under the "profiles" key.
package profile

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"animeverse/internal/storage"
	"animeverse/pkg/apperr"
	"animeverse/pkg/models"
)

const (
	avatarBase        = "https://api.dicebear.com/8.x/adventurer/svg"
	defaultBackground = "b6e3f4"
)

// Seeds are used whenever no profile list has been stored yet.
func Seeds() []models.Profile {
	return []models.Profile{
		{ID: "1", Name: "Eren", AvatarURL: avatarBase + "?seed=Eren&backgroundColor=b6e3f4"},
		{ID: "2", Name: "Mikasa", AvatarURL: avatarBase + "?seed=Mikasa&backgroundColor=c0aede"},
		{ID: "3", Name: "Armin", AvatarURL: avatarBase + "?seed=Armin&backgroundColor=d1d4f9"},
		{ID: "4", Name: "Levi", AvatarURL: avatarBase + "?seed=Levi&backgroundColor=ffd5dc"},
	}
}

// Listener is told about changes that affect an in-flight session.
type Listener interface {
	ProfileUpdated(p models.Profile)
	ProfileDeleted(id string)
}

type CreateInput struct {
	Name      string `json:"name" validate:"required,min=1,max=40"`
	AvatarURL string `json:"avatarUrl" validate:"omitempty,url"`
	Kids      bool   `json:"kids"`
	PIN       string `json:"pin" validate:"omitempty,len=4,numeric"`
}

// UpdateInput replaces name, avatar and kids flag. A nil PIN leaves the
// current one alone; an empty one clears it.
type UpdateInput struct {
	Name      string  `json:"name" validate:"required,min=1,max=40"`
	AvatarURL string  `json:"avatarUrl" validate:"omitempty,url"`
	Kids      bool    `json:"kids"`
	PIN       *string `json:"pin"`
}

type Service struct {
	Store storage.Store
	Log   logrus.FieldLogger

	// BcryptCost defaults to bcrypt.DefaultCost.
	BcryptCost int

	mu        sync.Mutex
	validate  *validator.Validate
	listeners []Listener
	seed      func() string
}

func NewService(store storage.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{
		Store:    store,
		Log:      log.WithField("component", "profiles"),
		validate: validator.New(),
		seed:     func() string { return strings.ReplaceAll(uuid.NewString(), "-", "")[:10] },
	}
}

func (s *Service) Subscribe(l Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()
}

func (s *Service) List(ctx context.Context) ([]models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.load(ctx) {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*models.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	p := models.Profile{
		ID:        uuid.NewString(),
		Name:      in.Name,
		AvatarURL: in.AvatarURL,
		Kids:      in.Kids,
	}
	if p.AvatarURL == "" {
		p.AvatarURL = s.avatarFor(p.Name, defaultBackground)
	}
	if in.PIN != "" {
		hash, err := s.hashPIN(in.PIN)
		if err != nil {
			return nil, err
		}
		p.PINHash = hash
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list := append(s.load(ctx), p)
	if err := storage.SaveJSON(ctx, s.Store, storage.ProfilesKey, list); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	s.Log.WithField("profile_id", p.ID).Info("profile created")
	return &p, nil
}

func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (*models.Profile, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.AvatarURL = strings.TrimSpace(in.AvatarURL)
	if err := s.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}

	var hash string
	if in.PIN != nil && *in.PIN != "" {
		if err := s.validate.Var(*in.PIN, "len=4,numeric"); err != nil {
			return nil, fmt.Errorf("%w: pin: %v", apperr.ErrInvalidInput, err)
		}
		h, err := s.hashPIN(*in.PIN)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	updated, err := s.mutate(ctx, id, func(p *models.Profile) {
		p.Name = in.Name
		if in.AvatarURL != "" {
			p.AvatarURL = in.AvatarURL
		}
		p.Kids = in.Kids
		if in.PIN != nil {
			p.PINHash = hash
		}
	})
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return updated, nil
}

// RefreshAvatar rolls a new avatar seed and keeps the current background colour.
func (s *Service) RefreshAvatar(ctx context.Context, id string) (*models.Profile, error) {
	updated, err := s.mutate(ctx, id, func(p *models.Profile) {
		p.AvatarURL = s.avatarFor(p.Name, backgroundOf(p.AvatarURL))
	})
	if err != nil {
		return nil, fmt.Errorf("refresh avatar: %w", err)
	}
	return updated, nil
}

// Delete removes the profile and everything stored under its keys. The last
// remaining profile cannot be deleted.
func (s *Service) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	list := s.load(ctx)
	idx := indexOf(list, id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("delete profile %s: %w", id, apperr.ErrNotFound)
	}
	if len(list) <= 1 {
		s.mu.Unlock()
		return fmt.Errorf("delete profile %s: %w", id, apperr.ErrLastProfile)
	}

	list = append(list[:idx:idx], list[idx+1:]...)
	if err := storage.SaveJSON(ctx, s.Store, storage.ProfilesKey, list); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	for _, key := range storage.ProfileKeys(id) {
		if err := s.Store.Delete(ctx, key); err != nil {
			s.Log.WithError(err).WithField("key", key).Warn("profile key cleanup failed")
		}
	}
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	s.Log.WithField("profile_id", id).Info("profile deleted")
	for _, l := range listeners {
		l.ProfileDeleted(id)
	}
	return nil
}

// VerifyPIN succeeds for profiles without a PIN.
func (s *Service) VerifyPIN(ctx context.Context, id, pin string) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("verify pin %s: %w", id, apperr.ErrNotFound)
	}
	if p.PINHash == "" {
		return nil
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PINHash), []byte(pin)); err != nil {
		return apperr.ErrInvalidPIN
	}
	return nil
}

func (s *Service) mutate(ctx context.Context, id string, fn func(p *models.Profile)) (*models.Profile, error) {
	s.mu.Lock()
	list := s.load(ctx)
	idx := indexOf(list, id)
	if idx < 0 {
		s.mu.Unlock()
		return nil, apperr.ErrNotFound
	}
	fn(&list[idx])
	if err := storage.SaveJSON(ctx, s.Store, storage.ProfilesKey, list); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	p := list[idx]
	listeners := append([]Listener(nil), s.listeners...)
	s.mu.Unlock()

	for _, l := range listeners {
		l.ProfileUpdated(p)
	}
	return &p, nil
}

// load must be called with mu held.
func (s *Service) load(ctx context.Context) []models.Profile {
	var list []models.Profile
	if !storage.LoadJSON(ctx, s.Store, s.Log, storage.ProfilesKey, &list) || list == nil {
		return Seeds()
	}
	return list
}

func (s *Service) hashPIN(pin string) (string, error) {
	cost := s.BcryptCost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pin), cost)
	if err != nil {
		return "", fmt.Errorf("hash pin: %w", err)
	}
	return string(b), nil
}

func (s *Service) avatarFor(name, background string) string {
	q := url.Values{}
	q.Set("seed", name+s.seed())
	q.Set("backgroundColor", background)
	return avatarBase + "?" + q.Encode()
}

func backgroundOf(avatarURL string) string {
	u, err := url.Parse(avatarURL)
	if err != nil {
		return defaultBackground
	}
	if bg := u.Query().Get("backgroundColor"); bg != "" {
		return bg
	}
	return defaultBackground
}

func indexOf(list []models.Profile, id string) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}
