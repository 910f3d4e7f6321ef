package articles

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"

	"github.com/vartahub/newsdesk/internal/apperr"
)

const slugMaxAttempts = 5

type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Sluggify lowers the title and collapses every run of non-alphanumeric
// characters into a single hyphen.
func Sluggify(title string) string {
	s := strings.ToLower(strings.TrimSpace(title))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

func randomSuffix() string {
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}
	return hex.EncodeToString(buf)
}

// uniqueSlug appends a random 3-byte hex suffix to the sluggified title
// and retries on collision up to slugMaxAttempts times.
func uniqueSlug(ctx context.Context, store slugChecker, title string) (string, error) {
	base := Sluggify(title)
	for range slugMaxAttempts {
		slug := base + "-" + randomSuffix()
		exists, err := store.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
	}
	return "", apperr.NewConflict("could not allocate a unique slug for the article")
}
