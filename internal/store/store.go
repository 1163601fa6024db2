// Package store persists user profiles by identifier. Implementations must
// keep writes atomic: a save is either fully visible or not visible at all.
// Concurrent saves to the same identifier are last-writer-wins; callers
// needing stricter ordering must serialize externally.
package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lifemarket/lifemarket/internal/domain"
)

var (
	// ErrProfileNotFound is returned by Delete when no profile exists for
	// the identifier. Load does not use it: a missing profile is absent,
	// not an error.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrProfileCorrupt is returned when stored data exists but does not
	// parse into a valid profile.
	ErrProfileCorrupt = errors.New("profile data is corrupt")

	// ErrProfileWrite is returned when the underlying write could not
	// complete (out of space, permission denied).
	ErrProfileWrite = errors.New("profile write failed")
)

// ProfileStore is the contract any profile storage backend must satisfy.
// Load returns (nil, nil) when nothing exists for the identifier.
type ProfileStore interface {
	Load(userID string) (*domain.UserProfile, error)
	Save(userID string, profile *domain.UserProfile) error
	Delete(userID string) error
	ListIDs() ([]string, error)
	Exists(userID string) (bool, error)
}

// SanitizeUserID validates an identifier before it is used as a storage key.
// Only letters, digits, dash, underscore and dot are allowed, and the id must
// not be empty or start with a dot.
func SanitizeUserID(userID string) (string, error) {
	if userID == "" {
		return "", fmt.Errorf("user id cannot be empty")
	}
	if strings.HasPrefix(userID, ".") {
		return "", fmt.Errorf("user id cannot start with a dot: %q", userID)
	}
	for _, r := range userID {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_' || r == '.':
		default:
			return "", fmt.Errorf("user id contains unsafe character %q: %q", r, userID)
		}
	}
	return userID, nil
}
