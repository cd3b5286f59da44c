package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is an opaque identifier backed by a UUID string. It is compared by
// value and can only be obtained through ParseID or GenerateID, so a
// non-zero ID is always well formed.
type ID struct {
	value string
}

// ParseID validates raw as a UUID and wraps it as an ID.
func ParseID(raw string) (ID, error) {
	if _, err := uuid.Parse(raw); err != nil {
		return ID{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return ID{value: raw}, nil
}

// GenerateID returns a fresh random ID.
func GenerateID() ID {
	return ID{value: uuid.NewString()}
}

func (id ID) String() string { return id.value }

// IsZero reports whether id is the zero value rather than a generated or
// parsed identifier.
func (id ID) IsZero() bool { return id.value == "" }
