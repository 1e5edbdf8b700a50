package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/aretw0/drip/internal/atomicfile"
	"github.com/aretw0/drip/pkg/core"
)

const fileName = "notifications.yaml"

// Config configuration for the file-backed notification center.
type Config struct {
	// Path is the directory holding the notification ledger.
	Path string
	// Deny makes the authorization request resolve to denied.
	Deny bool
	// Limit caps the pending set. Zero means DefaultLimit.
	Limit  int
	Logger *slog.Logger
}

type triggerModel struct {
	ID      string `yaml:"id"`
	Hour    int    `yaml:"hour"`
	Minute  int    `yaml:"minute"`
	Title   string `yaml:"title"`
	Body    string `yaml:"body"`
	Repeats bool   `yaml:"repeats"`
}

type ledgerModel struct {
	AuthStatus string         `yaml:"authStatus"`
	Pending    []triggerModel `yaml:"pending"`
}

// FileCenter is a core.NotificationCenter persisted to a YAML ledger.
type FileCenter struct {
	config Config
	path   string

	mu     sync.Mutex
	ledger ledgerModel
}

// NewFile loads (or lazily creates) the notification ledger inside cfg.Path.
func NewFile(cfg Config) (*FileCenter, error) {
	if cfg.Path == "" {
		return nil, errors.New("notification ledger path is required")
	}
	if cfg.Limit == 0 {
		cfg.Limit = DefaultLimit
	}

	c := &FileCenter{
		config: cfg,
		path:   filepath.Join(cfg.Path, fileName),
	}
	if err := c.load(); err != nil {
		return nil, err
	}
	if c.ledger.AuthStatus == "" {
		c.ledger.AuthStatus = string(core.AuthNotDetermined)
	}
	return c, nil
}

func (c *FileCenter) load() error {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read notification ledger: %w", err)
	}
	if err := yaml.Unmarshal(data, &c.ledger); err != nil {
		return fmt.Errorf("parse notification ledger: %w", err)
	}
	return nil
}

// flush must be called with the lock held.
func (c *FileCenter) flush() error {
	data, err := yaml.Marshal(c.ledger)
	if err != nil {
		return fmt.Errorf("serialize notification ledger: %w", err)
	}
	if c.config.Logger != nil {
		c.config.Logger.Debug("writing notification ledger", "path", c.path, "pending", len(c.ledger.Pending))
	}
	if err := atomicfile.WriteFile(c.path, data, 0o644); err != nil {
		return fmt.Errorf("write notification ledger: %w", err)
	}
	return nil
}

// RequestAuthorization resolves the one-time authorization prompt. Denial
// is sticky for the ledger's lifetime; re-requests never prompt again.
func (c *FileCenter) RequestAuthorization(ctx context.Context, opts core.AuthOptions) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch core.AuthStatus(c.ledger.AuthStatus) {
	case core.AuthAuthorized, core.AuthProvisional:
		return true, nil
	case core.AuthDenied:
		return false, nil
	}

	status := core.AuthAuthorized
	if c.config.Deny {
		status = core.AuthDenied
	}
	c.ledger.AuthStatus = string(status)
	if err := c.flush(); err != nil {
		return false, err
	}
	return status == core.AuthAuthorized, nil
}

// AuthorizationStatus reports the persisted status without prompting.
func (c *FileCenter) AuthorizationStatus(ctx context.Context) (core.AuthStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.AuthStatus(c.ledger.AuthStatus), nil
}

// Add installs a single trigger, subject to the pending-set limit.
func (c *FileCenter) Add(ctx context.Context, t core.Trigger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.ledger.Pending) >= c.config.Limit {
		return fmt.Errorf("%w (%d)", ErrTriggerLimit, c.config.Limit)
	}
	c.ledger.Pending = append(c.ledger.Pending, triggerModel{
		ID:      t.ID,
		Hour:    t.Hour,
		Minute:  t.Minute,
		Title:   t.Title,
		Body:    t.Body,
		Repeats: t.Repeats,
	})
	return c.flush()
}

// RemoveAllPending cancels every installed trigger.
func (c *FileCenter) RemoveAllPending(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ledger.Pending = nil
	return c.flush()
}

// Pending returns the installed triggers sorted by firing time.
func (c *FileCenter) Pending(ctx context.Context) ([]core.Trigger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]core.Trigger, 0, len(c.ledger.Pending))
	for _, t := range c.ledger.Pending {
		out = append(out, core.Trigger{
			ID:      t.ID,
			Hour:    t.Hour,
			Minute:  t.Minute,
			Title:   t.Title,
			Body:    t.Body,
			Repeats: t.Repeats,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Minute < out[j].Minute
	})
	return out, nil
}

var _ core.NotificationCenter = (*FileCenter)(nil)
