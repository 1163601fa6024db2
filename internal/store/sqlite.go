package store

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/lifemarket/lifemarket/internal/domain"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps profiles in a SQLite database, one row per identifier
// with the profile serialized as a JSON payload. SQLite's transactional
// replace gives the same at-most-one-complete-write-visible guarantee as the
// file store's rename.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so reads do not block while a save is in flight.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS profiles (
		user_id    TEXT PRIMARY KEY,
		payload    TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`)
	return err
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error { return s.db.Close() }

// Load reads and validates the profile for userID. A missing row returns
// (nil, nil); a row that does not decode into a valid profile returns
// ErrProfileCorrupt.
func (s *SQLiteStore) Load(userID string) (*domain.UserProfile, error) {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return nil, err
	}

	var payload string
	err = s.db.QueryRow("SELECT payload FROM profiles WHERE user_id = ?", id).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load profile %s: %w", id, err)
	}

	var profile domain.UserProfile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrProfileCorrupt, id, err)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("%w: profile %s: %v", ErrProfileCorrupt, id, err)
	}
	return &profile, nil
}

// Save validates and upserts the profile for userID.
func (s *SQLiteStore) Save(userID string, profile *domain.UserProfile) error {
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

	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("%w: encode profile %s: %v", ErrProfileWrite, id, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, err = s.db.Exec(`INSERT INTO profiles (user_id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		id, string(payload), time.Now().Unix())
	if err != nil {
		return fmt.Errorf("%w: profile %s: %v", ErrProfileWrite, id, err)
	}
	return nil
}

// Delete removes the profile for userID, failing with ErrProfileNotFound when
// none exists.
func (s *SQLiteStore) Delete(userID string) error {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.db.Exec("DELETE FROM profiles WHERE user_id = ?", id)
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete profile %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	return nil
}

// ListIDs returns the identifiers of all stored profiles, in no particular
// order.
func (s *SQLiteStore) ListIDs() ([]string, error) {
	rows, err := s.db.Query("SELECT user_id FROM profiles")
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("list profiles: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a profile is stored for userID.
func (s *SQLiteStore) Exists(userID string) (bool, error) {
	id, err := SanitizeUserID(userID)
	if err != nil {
		return false, err
	}
	var one int
	err = s.db.QueryRow("SELECT 1 FROM profiles WHERE user_id = ?", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat profile %s: %w", id, err)
	}
	return true, nil
}

var _ ProfileStore = (*SQLiteStore)(nil)
