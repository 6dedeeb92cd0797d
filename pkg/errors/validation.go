package errors

import (
	"math"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// MaxViewport bounds the width and height accepted for a layout viewport.
const MaxViewport = 1 << 15

// MaxFactor bounds the magnitude of a resize factor accepted from a user.
const MaxFactor = 1000

// ValidateSessionID checks that id is a canonical UUID string.
// Session IDs end up in file names and database keys, so anything else is
// rejected before it reaches a store.
func ValidateSessionID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidSession, "session ID cannot be empty")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Wrap(ErrCodeInvalidSession, err, "invalid session ID %q", id)
	}
	if parsed.String() != strings.ToLower(id) {
		return New(ErrCodeInvalidSession, "session ID must be in canonical form: %q", id)
	}
	return nil
}

// ValidateDimensions validates a layout viewport.
// Both sides must be positive and no larger than [MaxViewport]. The layout
// engine itself accepts any integers; this guards user-facing entry points.
func ValidateDimensions(width, height int) error {
	if width <= 0 || height <= 0 {
		return New(ErrCodeInvalidInput, "viewport must be positive, got %dx%d", width, height)
	}
	if width > MaxViewport || height > MaxViewport {
		return New(ErrCodeInvalidInput, "viewport too large (max %d), got %dx%d", MaxViewport, width, height)
	}
	return nil
}

// ValidateFactor validates a resize factor received from a user.
// Factors must be finite and within ±MaxFactor.
func ValidateFactor(f float64) error {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return New(ErrCodeInvalidInput, "resize factor must be finite")
	}
	if math.Abs(f) > MaxFactor {
		return New(ErrCodeInvalidInput, "resize factor must be within ±%g, got %g", float64(MaxFactor), f)
	}
	return nil
}

// ValidateName validates a node name coming from an untrusted snapshot.
// Control characters are rejected; everything else, including the empty
// string, is a legal name.
func ValidateName(name string) error {
	for _, r := range name {
		if unicode.IsControl(r) && r != '\t' {
			return New(ErrCodeInvalidTree, "node name contains control characters: %q", name)
		}
	}
	return nil
}
