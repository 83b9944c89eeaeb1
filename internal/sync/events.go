package sync

import "time"

const (
	EventContinueWatchingUpdate = "continue_watching.update"
	EventContinueWatchingClear  = "continue_watching.clear"
	EventMyListAdd              = "my_list.add"
	EventMyListRemove           = "my_list.remove"
	EventProfileActivate        = "profile.activate"
	EventProfileSignOut         = "profile.sign_out"

	EventWelcome = "welcome"
)

type WatchEvent struct {
	Type      string    `json:"type"`
	ProfileID string    `json:"profile_id"`
	MediaID   int       `json:"media_id,omitempty"`
	MediaType string    `json:"media_type,omitempty"`
	Season    int       `json:"season,omitempty"`
	Episode   int       `json:"episode,omitempty"`
	At        time.Time `json:"at"`
}

// WelcomeEvent is the first line every sync client receives.
type WelcomeEvent struct {
	Type      string `json:"type"`
	Transport string `json:"transport"`
	Clients   int    `json:"clients"`
}

// Publisher is what state owners need from the hub.
type Publisher interface {
	BroadcastJSON(v any)
}

// Publish stamps and broadcasts ev. A nil publisher is a no-op.
func Publish(p Publisher, ev WatchEvent) {
	if p == nil {
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	p.BroadcastJSON(ev)
}
