package ids

import (
	"strings"

	"github.com/google/uuid"
)

// New returns a fresh identifier in canonical form.
func New() string {
	return uuid.NewString()
}

// Normalize parses raw and returns its canonical lower-case form.
// The supplied sentinel is returned unchanged when raw is malformed.
func Normalize(raw string, invalid error) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", invalid
	}

	id, err := uuid.Parse(trimmed)
	if err != nil {
		return "", invalid
	}
	return id.String(), nil
}
