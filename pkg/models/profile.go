package models

type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Kids      bool   `json:"kids,omitempty"`

	// PINHash is a bcrypt hash; it stays in storage and is never sent to clients.
	PINHash string `json:"pinHash,omitempty"`
}

// PublicProfile is what clients see of a profile.
type PublicProfile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Kids      bool   `json:"kids,omitempty"`
	Locked    bool   `json:"locked"`
}

func (p Profile) Public() PublicProfile {
	return PublicProfile{
		ID:        p.ID,
		Name:      p.Name,
		AvatarURL: p.AvatarURL,
		Kids:      p.Kids,
		Locked:    p.PINHash != "",
	}
}
