// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package enrich

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/referee-engine/pkg/types"
)

// Cache persists fetched profiles in a SQLite database so repeat
// discovery runs do not re-query the public APIs for the same person.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the profile cache at path, creating parent
// directories as needed. Profiles older than ttl are treated as misses;
// ttl <= 0 means entries never expire.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening profile cache: %w", err)
	}

	c := &Cache{db: db, ttl: ttl}
	if err := c.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return c, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

func (c *Cache) createSchema() error {
	_, err := c.db.Exec(`CREATE TABLE IF NOT EXISTS profiles (
		key TEXT PRIMARY KEY,
		profile TEXT NOT NULL,
		fetched_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get returns the cached profile for key, or nil on a miss or an
// expired entry.
func (c *Cache) Get(ctx context.Context, key string) (*types.Profile, error) {
	var (
		payload   string
		fetchedAt string
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT profile, fetched_at FROM profiles WHERE key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile cache: %w", err)
	}

	if c.ttl > 0 {
		t, err := time.Parse(time.RFC3339Nano, fetchedAt)
		if err != nil || time.Since(t) > c.ttl {
			return nil, nil
		}
	}

	var profile types.Profile
	if err := json.Unmarshal([]byte(payload), &profile); err != nil {
		// A corrupt row is a miss; the next Put overwrites it.
		return nil, nil
	}
	return &profile, nil
}

// Put stores a profile under key, overwriting any previous entry.
func (c *Cache) Put(ctx context.Context, key string, profile *types.Profile) error {
	payload, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	fetchedAt := profile.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO profiles (key, profile, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET profile=excluded.profile, fetched_at=excluded.fetched_at`,
		key, string(payload), fetchedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing profile: %w", err)
	}
	return nil
}

// Count returns the number of cached profiles.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT count(*) FROM profiles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting profiles: %w", err)
	}
	return n, nil
}

// Purge removes all cached profiles and returns how many were deleted.
func (c *Cache) Purge(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM profiles`)
	if err != nil {
		return 0, fmt.Errorf("purging profile cache: %w", err)
	}
	n, _ := res.RowsAffected()
	return int(n), nil
}
