package articles

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// FeedCursor marks a position in the published feed: the publication
// time and ID of the last article a client has seen. The ID breaks ties
// between articles published in the same instant.
type FeedCursor struct {
	PublishedAt time.Time `json:"p"`
	ID          uuid.UUID `json:"i"`
}

// EncodeFeedCursor converts a feed position to an opaque base64 string.
func EncodeFeedCursor(publishedAt time.Time, id uuid.UUID) (string, error) {
	if id == uuid.Nil {
		return "", fmt.Errorf("cursor ID cannot be nil")
	}

	b, err := json.Marshal(FeedCursor{PublishedAt: publishedAt, ID: id})
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// DecodeFeedCursor parses a client-supplied cursor. An empty string
// decodes to nil, meaning the top of the feed.
func DecodeFeedCursor(s string) (*FeedCursor, error) {
	if s == "" {
		return nil, nil
	}

	b, err := base64.URLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode cursor: %w", err)
	}

	var c FeedCursor
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cursor: %w", err)
	}
	if c.ID == uuid.Nil {
		return nil, fmt.Errorf("invalid cursor: ID cannot be nil")
	}
	return &c, nil
}
