// Package storage is the durable key/value layer that scopes all persisted
// viewer state. Keys follow the browser storage layout the front end expects.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	ProfilesKey = "profiles"
	ThemeKey    = "theme"
)

type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

func ContinueWatchingKey(profileID string) string { return "continueWatchingList_" + profileID }
func MyListKey(profileID string) string           { return "myList_" + profileID }
func ProviderKey(profileID string) string         { return "playbackProvider_" + profileID }
func MultiEmbedServerKey(profileID string) string { return "multiEmbedServer_" + profileID }

// ProfileKeys lists every key owned by a profile.
func ProfileKeys(profileID string) []string {
	return []string{
		ContinueWatchingKey(profileID),
		MyListKey(profileID),
		ProviderKey(profileID),
		MultiEmbedServerKey(profileID),
	}
}

// LoadJSON decodes the value at key into dst. A missing key, a read error or
// a value that does not parse all report false and leave dst untouched, so
// callers fall back to their default.
func LoadJSON(ctx context.Context, s Store, log logrus.FieldLogger, key string, dst any) bool {
	raw, ok, err := s.Get(ctx, key)
	if err != nil {
		log.WithError(err).WithField("key", key).Warn("storage read failed, using default")
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		log.WithError(err).WithField("key", key).Warn("storage value unparsable, using default")
		return false
	}
	return true
}

func SaveJSON(ctx context.Context, s Store, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Set(ctx, key, string(b)); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}
