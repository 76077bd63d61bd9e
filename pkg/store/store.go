// Package store persists the beatmap index between runs so unchanged
// folders never need re-parsing. The cache is derivable from the songs
// folder at any time, so a broken database is always dropped and
// rebuilt, never a hard failure.
package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
	_ "modernc.org/sqlite"

	"github.com/syzomnia-el/osu-searcher/pkg/beatmap"
	"github.com/syzomnia-el/osu-searcher/pkg/logger"
)

var log = logger.GetLogger("store")

const schemaVersion = 1

const schema = `
CREATE TABLE IF NOT EXISTS sets (
	path        TEXT PRIMARY KEY,
	set_id      INTEGER NOT NULL,
	fingerprint TEXT NOT NULL,
	data        TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sets_set_id ON sets(set_id);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

type Store struct {
	db   *sql.DB
	path string
}

// Info describes the persisted snapshot.
type Info struct {
	Revision string
	BuiltAt  time.Time
	Sets     int
}

// Open prepares the cache database at path, creating or resetting it as
// needed.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, "create cache directory")
	}

	s := &Store{path: path}
	if err := s.open(); err != nil {
		return nil, err
	}

	if err := s.migrate(); err != nil {
		log.WithError(err).Warnf("Cache database %q is unusable, resetting", path)
		if err := s.reset(); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) open() error {
	dsn := s.path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return errors.Wrap(err, "open cache database")
	}

	s.db = db
	return nil
}

func (s *Store) migrate() error {
	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return errors.Wrap(err, "read schema version")
	}

	switch version {
	case schemaVersion:
		return nil
	case 0:
		if _, err := s.db.Exec(schema); err != nil {
			return errors.Wrap(err, "create schema")
		}
		if _, err := s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
			return errors.Wrap(err, "set schema version")
		}
		return nil
	default:
		// a future schema is as unusable as a corrupt file
		return errors.Errorf("unsupported cache schema version %d", version)
	}
}

// reset drops the database files and starts over with a fresh schema.
func (s *Store) reset() error {
	if s.db != nil {
		s.db.Close()
	}

	for _, suffix := range []string{"", "-wal", "-shm"} {
		if err := os.Remove(s.path + suffix); err != nil && !os.IsNotExist(err) {
			return errors.Wrapf(err, "remove %q", s.path+suffix)
		}
	}

	if err := s.open(); err != nil {
		return err
	}
	return s.migrate()
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Load returns the cached index. ok is false when nothing usable is
// stored; a corrupt cache is reset and reported as absent.
func (s *Store) Load(ctx context.Context) (*beatmap.Index, bool, error) {
	revision, err := s.metaValue(ctx, "revision")
	if err != nil {
		return s.loadFailed(err)
	}
	if revision == "" {
		return nil, false, nil
	}

	rows, err := s.db.QueryContext(ctx, "SELECT data FROM sets ORDER BY path")
	if err != nil {
		return s.loadFailed(err)
	}
	defer rows.Close()

	idx := beatmap.NewIndex()
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return s.loadFailed(err)
		}

		var set beatmap.Set
		if err := json.Unmarshal([]byte(data), &set); err != nil {
			return s.loadFailed(errors.Wrap(err, "decode cached set"))
		}

		idx.Put(&set)
	}
	if err := rows.Err(); err != nil {
		return s.loadFailed(err)
	}

	log.Debugf("Loaded %d cached sets, revision %s", idx.Len(), revision)
	return idx, true, nil
}

// loadFailed converts a broken cache into "absent".
func (s *Store) loadFailed(cause error) (*beatmap.Index, bool, error) {
	log.WithError(cause).Warn("Cache is unreadable, resetting")
	if err := s.reset(); err != nil {
		return nil, false, err
	}
	return nil, false, nil
}

// Save replaces the persisted snapshot with idx and stamps a fresh
// revision.
func (s *Store) Save(ctx context.Context, idx *beatmap.Index) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin save")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sets"); err != nil {
		return errors.Wrap(err, "clear sets")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO sets (path, set_id, fingerprint, data) VALUES (?, ?, ?, ?)")
	if err != nil {
		return errors.Wrap(err, "prepare insert")
	}
	defer stmt.Close()

	for _, set := range idx.Sets() {
		data, err := json.Marshal(set)
		if err != nil {
			return errors.Wrapf(err, "encode set %q", set.Path)
		}

		if _, err := stmt.ExecContext(ctx, set.Path, set.SetID, set.Fingerprint, string(data)); err != nil {
			return errors.Wrapf(err, "store set %q", set.Path)
		}
	}

	entropy := ulid.Monotonic(rand.Reader, 0)
	revision := ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()

	meta := map[string]string{
		"revision": revision,
		"built_at": time.Now().UTC().Format(time.RFC3339),
	}
	for key, value := range meta {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO meta (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
			key, value); err != nil {
			return errors.Wrapf(err, "store meta %q", key)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit save")
	}

	log.Debugf("Saved %d sets, revision %s", idx.Len(), revision)
	return nil
}

// Invalidate drops the persisted snapshot.
func (s *Store) Invalidate(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin invalidate")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sets"); err != nil {
		return errors.Wrap(err, "clear sets")
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM meta"); err != nil {
		return errors.Wrap(err, "clear meta")
	}

	return errors.Wrap(tx.Commit(), "commit invalidate")
}

// Stats reads the snapshot metadata. ok is false when nothing is stored.
func (s *Store) Stats(ctx context.Context) (Info, bool, error) {
	revision, err := s.metaValue(ctx, "revision")
	if err != nil {
		return Info{}, false, err
	}
	if revision == "" {
		return Info{}, false, nil
	}

	info := Info{Revision: revision}

	if raw, err := s.metaValue(ctx, "built_at"); err == nil && raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			info.BuiltAt = t
		}
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sets").Scan(&info.Sets); err != nil {
		return Info{}, false, errors.Wrap(err, "count sets")
	}

	return info, true, nil
}

func (s *Store) metaValue(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return value, nil
}
