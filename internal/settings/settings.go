// Package settings persists the device theme and per-profile playback choices.
package settings

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"animeverse/internal/storage"
	"animeverse/pkg/apperr"
)

type Theme string

const (
	ThemeBlue Theme = "blue"
	ThemeRed  Theme = "red"

	DefaultTheme = ThemeBlue
)

func ParseTheme(s string) (Theme, bool) {
	switch Theme(s) {
	case ThemeBlue, ThemeRed:
		return Theme(s), true
	default:
		return "", false
	}
}

type Service struct {
	Store storage.Store
	Log   logrus.FieldLogger
}

func NewService(store storage.Store, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{Store: store, Log: log.WithField("component", "settings")}
}

// Theme falls back to blue when nothing valid is stored.
func (s *Service) Theme(ctx context.Context) Theme {
	var raw string
	if !storage.LoadJSON(ctx, s.Store, s.Log, storage.ThemeKey, &raw) {
		return DefaultTheme
	}
	t, ok := ParseTheme(raw)
	if !ok {
		return DefaultTheme
	}
	return t
}

func (s *Service) SetTheme(ctx context.Context, raw string) (Theme, error) {
	t, ok := ParseTheme(raw)
	if !ok {
		return "", fmt.Errorf("set theme: %w: %q", apperr.ErrInvalidInput, raw)
	}
	if err := storage.SaveJSON(ctx, s.Store, storage.ThemeKey, t); err != nil {
		return "", fmt.Errorf("set theme: %w", err)
	}
	return t, nil
}

// Provider returns the stored provider name for a profile, or "" when unset.
func (s *Service) Provider(ctx context.Context, profileID string) string {
	var name string
	storage.LoadJSON(ctx, s.Store, s.Log, storage.ProviderKey(profileID), &name)
	return name
}

func (s *Service) SetProvider(ctx context.Context, profileID, name string) error {
	if err := storage.SaveJSON(ctx, s.Store, storage.ProviderKey(profileID), name); err != nil {
		return fmt.Errorf("set provider: %w", err)
	}
	return nil
}

// MultiEmbedServer defaults to server 1.
func (s *Service) MultiEmbedServer(ctx context.Context, profileID string) int {
	var n int
	if !storage.LoadJSON(ctx, s.Store, s.Log, storage.MultiEmbedServerKey(profileID), &n) || n < 1 {
		return 1
	}
	return n
}

func (s *Service) SetMultiEmbedServer(ctx context.Context, profileID string, n int) error {
	if n < 1 {
		return fmt.Errorf("set server: %w: %s", apperr.ErrInvalidInput, strconv.Itoa(n))
	}
	if err := storage.SaveJSON(ctx, s.Store, storage.MultiEmbedServerKey(profileID), n); err != nil {
		return fmt.Errorf("set server: %w", err)
	}
	return nil
}
