// Package apperr holds the error taxonomy shared by the stores, the catalog
// client and the transport layers.
package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidInput    = errors.New("invalid input")
	ErrLastProfile     = errors.New("cannot delete the last profile")
	ErrNoActiveProfile = errors.New("no active profile")
	ErrInvalidPIN      = errors.New("invalid pin")

	// Playback is blocked when the selected provider needs an identifier the
	// media record does not carry.
	ErrMissingIMDbID = errors.New("we couldn't find the IMDb id needed to play this content")
	ErrMissingTMDBID = errors.New("we couldn't find the TMDB id needed to play this content")
)

// CatalogError is a non-2xx answer from the catalog API.
type CatalogError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *CatalogError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "Unknown error"
	}
	return fmt.Sprintf("catalog api error on %s: status %d, message: %s", e.Endpoint, e.Status, msg)
}

// IsPlaybackBlocked reports a missing-identifier failure.
func IsPlaybackBlocked(err error) bool {
	return errors.Is(err, ErrMissingIMDbID) || errors.Is(err, ErrMissingTMDBID)
}

// CatalogStatus returns the upstream status code, or 0 when err is not a CatalogError.
func CatalogStatus(err error) int {
	var ce *CatalogError
	if errors.As(err, &ce) {
		return ce.Status
	}
	return 0
}
