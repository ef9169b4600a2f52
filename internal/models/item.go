// Package models defines the watch-list records shared by the client core,
// the RPC layer and the store.
package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// MediaType classifies a watch-list record.
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

var ErrInvalidMediaType = errors.New("invalid media type")

// ParseMediaType accepts "movie" or "tv" in any case.
func ParseMediaType(s string) (MediaType, error) {
	switch MediaType(strings.ToLower(strings.TrimSpace(s))) {
	case MediaTypeMovie:
		return MediaTypeMovie, nil
	case MediaTypeTV:
		return MediaTypeTV, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMediaType, s)
}

// Label is the human-readable noun used in store messages.
func (m MediaType) Label() string {
	if m == MediaTypeTV {
		return "TV show"
	}
	return "movie"
}

// ItemID is the store-assigned identifier of a record. A record that has not
// been accepted by the store yet has a pending id.
type ItemID struct {
	value    int64
	assigned bool
}

// Pending returns the id of a record the store has not accepted yet.
func Pending() ItemID { return ItemID{} }

// Assigned wraps an id handed out by the store.
func Assigned(v int64) ItemID { return ItemID{value: v, assigned: true} }

// Value returns the id and whether it has been assigned.
func (id ItemID) Value() (int64, bool) { return id.value, id.assigned }

func (id ItemID) IsAssigned() bool { return id.assigned }

func (id ItemID) String() string {
	if !id.assigned {
		return "pending"
	}
	return fmt.Sprintf("%d", id.value)
}

func (id ItemID) MarshalJSON() ([]byte, error) {
	if !id.assigned {
		return []byte("null"), nil
	}
	return json.Marshal(id.value)
}

func (id *ItemID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*id = Pending()
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*id = Assigned(v)
	return nil
}

// WatchListItem is a persisted watch-list record.
type WatchListItem struct {
	ID              ItemID    `json:"id"`
	MediaType       MediaType `json:"media_type"`
	Name            string    `json:"name"`
	Rating          int       `json:"rating"`
	WouldWatchAgain bool      `json:"would_watch_again"`
}

// Draft is a record as typed by the user, before the store assigns an id.
// Rating stays a float so that non-integral input reaches validation.
type Draft struct {
	MediaType       MediaType `json:"media_type"`
	Name            string    `json:"name"`
	Rating          float64   `json:"rating"`
	WouldWatchAgain bool      `json:"would_watch_again"`
}

// DefaultDraft is the state of an empty input form.
func DefaultDraft() Draft {
	return Draft{MediaType: MediaTypeMovie, Rating: 5}
}
