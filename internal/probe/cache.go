package probe

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"footage/internal/manifest"
)

//go:embed schema.sql
var schemaSQL string

// cacheSchemaVersion is bumped when the cache layout changes. A mismatched
// cache is dropped and rebuilt since every row can be re-probed.
const cacheSchemaVersion = 1

// Key identifies one version of a file on disk.
type Key struct {
	Path    string
	Size    int64
	MtimeNS int64
}

// KeyFor stats path and returns its cache key.
func KeyFor(path string) (Key, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Key{}, fmt.Errorf("resolve path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return Key{}, err
	}
	return Key{Path: abs, Size: info.Size(), MtimeNS: info.ModTime().UnixNano()}, nil
}

// Cache persists probe results in SQLite.
type Cache struct {
	db   *sql.DB
	path string
}

// OpenCache opens or creates the cache database at path.
func OpenCache(path string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	cache := &Cache{db: db, path: path}
	if err := cache.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return cache, nil
}

// Path returns the database file path.
func (c *Cache) Path() string {
	return c.path
}

// Close closes the underlying database connection.
func (c *Cache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Lookup returns the cached metadata for key, if the stored row matches its
// size and modification time.
func (c *Cache) Lookup(ctx context.Context, key Key) (manifest.Metadata, bool, error) {
	var meta manifest.Metadata
	err := c.db.QueryRowContext(ctx,
		`SELECT duration, created, resolution FROM probe_cache WHERE path = ? AND size = ? AND mtime_ns = ?`,
		key.Path, key.Size, key.MtimeNS,
	).Scan(&meta.Duration, &meta.Created, &meta.Resolution)
	if errors.Is(err, sql.ErrNoRows) {
		return manifest.Metadata{}, false, nil
	}
	if err != nil {
		return manifest.Metadata{}, false, fmt.Errorf("lookup probe cache: %w", err)
	}
	return meta, true, nil
}

// Store records metadata for key, replacing any row for the same path.
func (c *Cache) Store(ctx context.Context, key Key, meta manifest.Metadata) error {
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO probe_cache (path, size, mtime_ns, duration, created, resolution, cached_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(path) DO UPDATE SET
            size = excluded.size,
            mtime_ns = excluded.mtime_ns,
            duration = excluded.duration,
            created = excluded.created,
            resolution = excluded.resolution,
            cached_at = excluded.cached_at`,
		key.Path, key.Size, key.MtimeNS, meta.Duration, meta.Created, meta.Resolution,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("store probe cache: %w", err)
	}
	return nil
}

// Count returns the number of cached rows.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM probe_cache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count probe cache: %w", err)
	}
	return n, nil
}

func (c *Cache) initSchema(ctx context.Context) error {
	var tableExists int
	err := c.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 1 {
		var version int
		err = c.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
		if err == nil && version == cacheSchemaVersion {
			return nil
		}
		if _, err := c.db.ExecContext(ctx, "DROP TABLE IF EXISTS probe_cache; DROP TABLE IF EXISTS schema_version"); err != nil {
			return fmt.Errorf("drop stale probe cache: %w", err)
		}
	}
	return c.createSchema(ctx)
}

func (c *Cache) createSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", cacheSchemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}
