package types

import (
	"errors"
	"fmt"
)

// ------------------------------
// Shared Errors
// ------------------------------

var (
	// ErrMissingExternalID is returned before any request when an external user ID is required but empty.
	ErrMissingExternalID = errors.New("external_id is required")
	// ErrMissingFavoriteID is returned before any request when a favorite ID is required but unset.
	ErrMissingFavoriteID = errors.New("favorite id is required")
)

// ValidateExternalID rejects a missing (empty) external ID. Any non-empty
// value, whitespace included, is passed through for the backend to judge.
func ValidateExternalID(externalID string) error {
	if externalID == "" {
		return ErrMissingExternalID
	}
	return nil
}

// ValidateFavoriteID rejects unset (zero) or negative favorite IDs.
func ValidateFavoriteID(id int) error {
	if id <= 0 {
		return fmt.Errorf("%w: got %d", ErrMissingFavoriteID, id)
	}
	return nil
}
