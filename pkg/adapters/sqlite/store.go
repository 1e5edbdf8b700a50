// Package sqlite implements the health record store contract on a local
// SQLite database. Samples are stored canonically in milliliters and read
// back in the preferred unit; the preferred unit itself lives in a sidecar
// file so other processes can change it out-of-band.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	_ "modernc.org/sqlite" // pure go sqlite driver

	"github.com/aretw0/drip/internal/atomicfile"
	"github.com/aretw0/drip/pkg/core"
)

const (
	dbFileName   = "health.db"
	unitFileName = "unit.yaml"

	authStatusKey = "auth_status"
)

// Config configuration for the SQLite health store.
type Config struct {
	// Path is the directory holding the database and the unit sidecar.
	Path string
	// Source is the origin name written with each sample. Defaults to
	// core.DefaultSource.
	Source string
	// DenyAuthorization makes the one-time authorization request resolve
	// to denied. Used to exercise the permission-explainer path.
	DenyAuthorization bool
	// ErrorHandler receives runtime watcher errors.
	ErrorHandler func(error)
	Logger       *slog.Logger
}

// Store is a HealthStore backed by a local SQLite database.
type Store struct {
	config   Config
	db       *sql.DB
	dbPath   string
	unitPath string

	mu            sync.RWMutex
	authStatus    core.AuthStatus
	watcherActive bool
	worker        *watchWorker
}

// New opens (and bootstraps if needed) a store rooted at cfg.Path.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("store path is required")
	}
	if cfg.Source == "" {
		cfg.Source = core.DefaultSource
	}
	if err := os.MkdirAll(cfg.Path, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create store dir: %w", err)
	}

	dbPath := filepath.Join(cfg.Path, dbFileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer; funneling everything through one
	// connection avoids SQLITE_BUSY under concurrent adds.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable WAL: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS samples (
		id TEXT PRIMARY KEY,
		value_ml REAL NOT NULL,
		source TEXT NOT NULL,
		start_at INTEGER NOT NULL,
		end_at INTEGER NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create samples table: %w", err)
	}
	if _, err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_samples_end_at ON samples (end_at)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create samples index: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS settings (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create settings table: %w", err)
	}

	s := &Store{
		config:   cfg,
		db:       db,
		dbPath:   dbPath,
		unitPath: filepath.Join(cfg.Path, unitFileName),
	}
	if err := s.loadAuthStatus(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close stops the watcher (if running) and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	worker := s.worker
	s.worker = nil
	s.mu.Unlock()

	if worker != nil {
		_ = worker.Stop(context.Background())
	}
	return s.db.Close()
}

func (s *Store) loadAuthStatus() error {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, authStatusKey).Scan(&value)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		s.authStatus = core.AuthNotDetermined
		return nil
	case err != nil:
		return fmt.Errorf("load auth status: %w", err)
	}
	s.authStatus = core.AuthStatus(value)
	return nil
}

func (s *Store) persistAuthStatus(status core.AuthStatus) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		authStatusKey, string(status),
	)
	if err != nil {
		return fmt.Errorf("persist auth status: %w", err)
	}
	return nil
}

// RequestAuthorization resolves the one-time authorization request. Once
// denied the status is sticky; there is no runtime re-request path.
func (s *Store) RequestAuthorization(ctx context.Context) (core.AuthStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authStatus != core.AuthNotDetermined {
		return s.authStatus, nil
	}
	status := core.AuthAuthorized
	if s.config.DenyAuthorization {
		status = core.AuthDenied
	}
	if err := s.persistAuthStatus(status); err != nil {
		return core.AuthNotDetermined, err
	}
	s.authStatus = status
	return status, nil
}

// AuthorizationStatus reports the cached per-type status without prompting.
func (s *Store) AuthorizationStatus(ctx context.Context) core.AuthStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authStatus
}

func (s *Store) ensureAuthorized() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.authStatus != core.AuthAuthorized {
		return fmt.Errorf("%w (status: %s)", core.ErrNotAuthorized, s.authStatus)
	}
	return nil
}

// SumToday returns the aggregate over [start, end) across all contributors,
// converted into the preferred unit. Absence of data is not an error.
func (s *Store) SumToday(ctx context.Context, start, end time.Time) (float64, bool, error) {
	if err := s.ensureAuthorized(); err != nil {
		return 0, false, err
	}

	var totalML float64
	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(value_ml), 0), COUNT(*) FROM samples WHERE end_at >= ? AND end_at < ?`,
		start.UnixNano(), end.UnixNano(),
	).Scan(&totalML, &count)
	if err != nil {
		return 0, false, fmt.Errorf("sum samples: %w", err)
	}
	if count == 0 {
		return 0, false, nil
	}

	unit := s.preferredOrDefault(ctx)
	return core.FromMilliliters(totalML, unit), true, nil
}

// MostRecent returns the latest entry in [start, end) written by this
// store's own source, or nil when none exists.
func (s *Store) MostRecent(ctx context.Context, start, end time.Time) (*core.Entry, error) {
	if err := s.ensureAuthorized(); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, value_ml, source, start_at, end_at FROM samples
		 WHERE source = ? AND end_at >= ? AND end_at < ?
		 ORDER BY end_at DESC LIMIT 1`,
		s.config.Source, start.UnixNano(), end.UnixNano(),
	)

	var (
		id      string
		valueML float64
		source  string
		startAt int64
		endAt   int64
	)
	err := row.Scan(&id, &valueML, &source, &startAt, &endAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("query most recent: %w", err)
	}

	unit := s.preferredOrDefault(ctx)
	return &core.Entry{
		ID:     id,
		Value:  core.FromMilliliters(valueML, unit),
		Unit:   unit,
		Source: source,
		Start:  time.Unix(0, startAt),
		End:    time.Unix(0, endAt),
	}, nil
}

// Save persists a new sample, converting the value to milliliters.
func (s *Store) Save(ctx context.Context, e core.Entry) error {
	if err := s.ensureAuthorized(); err != nil {
		return err
	}

	source := e.Source
	if source == "" {
		source = s.config.Source
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO samples (id, value_ml, source, start_at, end_at) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(),
		core.ToMilliliters(e.Value, e.Unit),
		source,
		e.Start.UnixNano(),
		e.End.UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// Delete removes an existing sample by ID.
func (s *Store) Delete(ctx context.Context, e core.Entry) error {
	if err := s.ensureAuthorized(); err != nil {
		return err
	}

	res, err := s.db.ExecContext(ctx, `DELETE FROM samples WHERE id = ?`, e.ID)
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete sample: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("sample %s not found", e.ID)
	}
	return nil
}

// unitSidecar is the on-disk shape of the preferred-unit sidecar file.
type unitSidecar struct {
	Unit string `yaml:"unit"`
}

// PreferredUnit reads the preferred unit from the sidecar file. A missing
// or empty sidecar means the store has no preference recorded.
func (s *Store) PreferredUnit(ctx context.Context) (core.Unit, bool, error) {
	data, err := os.ReadFile(s.unitPath)
	if errors.Is(err, os.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read unit sidecar: %w", err)
	}

	var sidecar unitSidecar
	if err := yaml.Unmarshal(data, &sidecar); err != nil {
		return "", false, fmt.Errorf("parse unit sidecar: %w", err)
	}
	if sidecar.Unit == "" {
		return "", false, nil
	}
	return core.Unit(sidecar.Unit), true, nil
}

// SetPreferredUnit rewrites the sidecar file. Writing it from another
// process is the out-of-band "preferred unit changed" signal the watcher
// picks up.
func (s *Store) SetPreferredUnit(ctx context.Context, unit core.Unit) error {
	data, err := yaml.Marshal(unitSidecar{Unit: string(unit)})
	if err != nil {
		return fmt.Errorf("serialize unit sidecar: %w", err)
	}
	if err := atomicfile.WriteFile(s.unitPath, data, 0o644); err != nil {
		return fmt.Errorf("write unit sidecar: %w", err)
	}
	return nil
}

func (s *Store) preferredOrDefault(ctx context.Context) core.Unit {
	unit, ok, err := s.PreferredUnit(ctx)
	if err != nil || !ok {
		return core.Milliliters
	}
	return unit
}

// Watch starts observing the unit sidecar for out-of-band changes and
// returns the event channel. The subscription lives until ctx is done or
// the store is closed.
func (s *Store) Watch(ctx context.Context) (<-chan core.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.worker != nil {
		return nil, errors.New("store is already being watched")
	}

	events := make(chan core.Event, 16)
	worker := newWatchWorker(s, events)
	if err := worker.Start(ctx); err != nil {
		return nil, err
	}
	s.worker = worker
	return events, nil
}

func (s *Store) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

var _ core.HealthStore = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
