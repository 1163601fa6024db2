package store

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/lifemarket/lifemarket/internal/domain"
)

const profileExt = ".json"

// JSONStore keeps one JSON document per profile in a single directory. Saves
// write to a temporary file in the same directory and then rename it into
// place, so a crash mid-write never leaves a half-written profile visible.
type JSONStore struct {
	dir string
}

// NewJSONStore creates the storage directory if needed and returns a store
// rooted there.
func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create profile directory %s: %w", dir, err)
	}
	return &JSONStore{dir: dir}, nil
}

func (s *JSONStore) path(userID string) string {
	return filepath.Join(s.dir, userID+profileExt)
}

// Load reads and validates the profile for userID. A missing profile returns
// (nil, nil); existing but unreadable or invalid data returns
// ErrProfileCorrupt.
func (s *JSONStore) Load(userID string) (*domain.UserProfile, error) {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read profile %s: %w", id, err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrProfileCorrupt, id, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrProfileCorrupt, id, err)
	}
	return &profile, nil
}

// Save validates and writes the profile atomically, overwriting any previous
// version. Failures to write are reported as ErrProfileWrite; the previous
// version, if any, stays intact.
func (s *JSONStore) Save(userID string, profile *domain.UserProfile) error {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}
	if profile == nil {
		return fmt.Errorf("profile is required")
	}
	if err := profile.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(profile, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode profile %s: %v", ErrProfileWrite, id, err)
	}

	tmp, err := os.CreateTemp(s.dir, id+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: create temp file for %s: %v", ErrProfileWrite, id, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write profile %s: %v", ErrProfileWrite, id, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: sync profile %s: %v", ErrProfileWrite, id, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file for %s: %v", ErrProfileWrite, id, err)
	}
	if err := os.Rename(tmp.Name(), s.path(id)); err != nil {
		return fmt.Errorf("%w: replace profile %s: %v", ErrProfileWrite, id, err)
	}
	return nil
}

// Delete removes the profile for userID, failing with ErrProfileNotFound when
// none exists.
func (s *JSONStore) Delete(userID string) error {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}
	if err := os.Remove(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
		}
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	return nil
}

// ListIDs returns the identifiers of all stored profiles, in no particular
// order.
func (s *JSONStore) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, profileExt) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, profileExt))
	}
	return ids, nil
}

// Exists reports whether a profile is stored for userID.
func (s *JSONStore) Exists(userID string) (bool, error) {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(s.path(id)); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("stat profile %s: %w", id, err)
	}
	return true, nil
}

var _ ProfileStore = (*JSONStore)(nil)
