// Package cache provides a TTL snapshot store for upstream API responses.
//
// Snapshots are keyed by request URL and expire after a configurable TTL.
// Payloads are msgpack-encoded. The store is ephemeral by design: losing it
// only costs a re-fetch from the upstream API.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"

	"gwplanner/internal/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS snapshots (
    key        TEXT PRIMARY KEY,
    payload    BLOB NOT NULL,
    expires_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_expires ON snapshots(expires_at);
`

// Store is a TTL cache backed by the cache database.
type Store struct {
	db  *database.DB
	ttl time.Duration
	log zerolog.Logger

	// now is overridable in tests
	now func() time.Time
}

// New creates the snapshot store and ensures its schema exists.
func New(db *database.DB, ttl time.Duration, log zerolog.Logger) (*Store, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create snapshot schema: %w", err)
	}
	return &Store{
		db:  db,
		ttl: ttl,
		log: log.With().Str("component", "snapshot_cache").Logger(),
		now: time.Now,
	}, nil
}

// Get loads a snapshot into out. Returns false on miss or expiry.
// Expired rows are evicted lazily on read.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	var payload []byte
	var expiresAt int64

	err := s.db.QueryRow(
		"SELECT payload, expires_at FROM snapshots WHERE key = ?", key,
	).Scan(&payload, &expiresAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read snapshot %q: %w", key, err)
	}

	if s.now().Unix() >= expiresAt {
		if _, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", key); err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("Failed to evict expired snapshot")
		}
		return false, nil
	}

	if err := msgpack.Unmarshal(payload, out); err != nil {
		return false, fmt.Errorf("failed to decode snapshot %q: %w", key, err)
	}
	return true, nil
}

// Put stores a snapshot, replacing any previous value for the key.
func (s *Store) Put(key string, value interface{}) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot %q: %w", key, err)
	}

	expiresAt := s.now().Add(s.ttl).Unix()
	_, err = s.db.Exec(
		"INSERT INTO snapshots (key, payload, expires_at) VALUES (?, ?, ?) "+
			"ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, expires_at = excluded.expires_at",
		key, payload, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store snapshot %q: %w", key, err)
	}
	return nil
}

// Sweep deletes all expired snapshots and returns how many were removed.
func (s *Store) Sweep() (int64, error) {
	res, err := s.db.Exec("DELETE FROM snapshots WHERE expires_at <= ?", s.now().Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to sweep snapshots: %w", err)
	}
	removed, _ := res.RowsAffected()
	if removed > 0 {
		s.log.Debug().Int64("removed", removed).Msg("Swept expired snapshots")
	}
	return removed, nil
}
