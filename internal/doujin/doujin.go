package doujin

import (
	"errors"
	"strings"
	"time"
)

// ErrNotFound is returned when an entry is not found.
var ErrNotFound = errors.New("doujinshi not found")

// ErrEmptyIDs is returned when a bulk delete is called with no ids.
var ErrEmptyIDs = errors.New("no ids to delete")

// ErrStorage is returned when writing a thumbnail to the blob store fails.
var ErrStorage = errors.New("thumbnail storage failed")

// Doujinshi represents one catalog entry.
type Doujinshi struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Circle        *string   `json:"circle,omitempty"`
	Authors       []string  `json:"authors"`
	Genres        []string  `json:"genres"`
	PublishedDate *string   `json:"published_date,omitempty"`
	ThumbnailURL  *string   `json:"thumbnail_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Query defines optional filters for listing entries. All present filters
// are combined with AND.
type Query struct {
	Search string
	Genres []string
	Circle string
	Author string
}

// CircleCount is one row of the distinct-circle aggregation.
type CircleCount struct {
	Circle string `json:"circle"`
	Count  int    `json:"count"`
}

// AuthorCount is one row of the distinct-author aggregation.
type AuthorCount struct {
	Author string `json:"author"`
	Count  int    `json:"count"`
}

// SplitList turns comma-separated user input into a trimmed slice.
// Whitespace-only segments are dropped; "" and ",," both yield an empty
// (non-nil) slice.
func SplitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

const dateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD input. Empty input means "no date".
func ParseDate(s string) (*string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, err
	}
	formatted := t.Format(dateLayout)
	return &formatted, nil
}
