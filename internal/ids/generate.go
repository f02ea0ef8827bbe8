// Package ids generates short task identifiers and computes the prefixes
// needed to refer to them unambiguously.
package ids

import (
	"crypto/sha256"
	"encoding/base32"
	"strings"
	"time"
)

// DefaultLength is the standard length for generated IDs.
const DefaultLength = 8

// Generate creates a deterministic, lowercase base32 ID derived from input.
func Generate(input string, length int) string {
	if length <= 0 {
		return ""
	}
	hash := sha256.Sum256([]byte(input))
	encoded := base32.StdEncoding.EncodeToString(hash[:])
	if length > len(encoded) {
		length = len(encoded)
	}
	return strings.ToLower(encoded[:length])
}

// ForTask derives a task ID from its title and creation time.
func ForTask(title string, createdAt time.Time) string {
	return Generate(title+createdAt.Format(time.RFC3339Nano), DefaultLength)
}
