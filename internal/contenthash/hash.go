// Package contenthash fingerprints user-submitted text for duplicate
// detection. Input is normalized (trimmed, lowercased) before hashing so
// trivially re-spaced or re-cased resubmissions collide.
package contenthash

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Sum returns the hex-encoded sha256 of the normalized input.
func Sum(text string) string {
	normalized := strings.ToLower(strings.TrimSpace(text))
	digest := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(digest[:])
}
