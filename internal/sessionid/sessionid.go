// Package sessionid generates and validates session identifiers.
//
// Session ids key on-disk indices and history records, so every id that
// crosses a trust boundary is validated here before it is used to derive a
// storage location.
package sessionid

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// New returns a fresh random session id.
func New() string {
	return uuid.NewString()
}

// Validate returns domain.ErrInvalidSessionID unless id is a canonical UUID.
// Braced, URN and hyphen-less forms are rejected so that a single session
// can never map to two storage locations.
func Validate(id string) error {
	if len(id) != 36 {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, id)
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: %q", domain.ErrInvalidSessionID, id)
	}
	if parsed.String() != id {
		return fmt.Errorf("%w: %q is not in canonical form", domain.ErrInvalidSessionID, id)
	}
	return nil
}

// IsValid reports whether id passes Validate.
func IsValid(id string) bool {
	return Validate(id) == nil
}
