package domain

import "encoding/json"

// Event represents one unit of public activity for a user.
// Values are built once by the decoder and never mutated afterwards.
type Event struct {
	ID        string
	Action    EventAction
	CreatedAt string // ISO-8601, kept as received; only used as the sort key
	Actor     Actor
	Repo      Repo
}

// Actor is the user who performed the event. URLs are already normalized.
type Actor struct {
	DisplayLogin string `json:"displayLogin"`
	URL          string `json:"url"`
	AvatarURL    string `json:"avatarUrl"`
}

// Repo is the repository the event happened in. URL is already normalized.
type Repo struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// MarshalJSON encodes the event with its action kind next to the payload.
func (e Event) MarshalJSON() ([]byte, error) {
	var kind ActionKind
	if e.Action != nil {
		kind = e.Action.Kind()
	}
	return json.Marshal(struct {
		ID        string      `json:"id"`
		Type      ActionKind  `json:"type"`
		Action    EventAction `json:"action"`
		CreatedAt string      `json:"createdAt"`
		Actor     Actor       `json:"actor"`
		Repo      Repo        `json:"repo"`
	}{
		ID:        e.ID,
		Type:      kind,
		Action:    e.Action,
		CreatedAt: e.CreatedAt,
		Actor:     e.Actor,
		Repo:      e.Repo,
	})
}
