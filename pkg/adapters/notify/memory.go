package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/drip/pkg/core"
)

// MemoryCenter is an in-memory core.NotificationCenter with the same
// semantics as the file-backed one. Nothing survives the process.
type MemoryCenter struct {
	mu      sync.Mutex
	status  core.AuthStatus
	deny    bool
	limit   int
	pending []core.Trigger
}

// MemoryOption defines a functional option for configuring a MemoryCenter.
type MemoryOption func(*MemoryCenter)

// WithDeny makes the authorization request resolve to denied.
func WithDeny(deny bool) MemoryOption {
	return func(c *MemoryCenter) {
		c.deny = deny
	}
}

// WithLimit caps the pending set.
func WithLimit(limit int) MemoryOption {
	return func(c *MemoryCenter) {
		c.limit = limit
	}
}

// NewMemory creates an in-memory notification center.
func NewMemory(opts ...MemoryOption) *MemoryCenter {
	c := &MemoryCenter{
		status: core.AuthNotDetermined,
		limit:  DefaultLimit,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCenter) RequestAuthorization(ctx context.Context, opts core.AuthOptions) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.status {
	case core.AuthAuthorized, core.AuthProvisional:
		return true, nil
	case core.AuthDenied:
		return false, nil
	}
	if c.deny {
		c.status = core.AuthDenied
		return false, nil
	}
	c.status = core.AuthAuthorized
	return true, nil
}

func (c *MemoryCenter) AuthorizationStatus(ctx context.Context) (core.AuthStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, nil
}

func (c *MemoryCenter) Add(ctx context.Context, t core.Trigger) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.pending) >= c.limit {
		return fmt.Errorf("%w (%d)", ErrTriggerLimit, c.limit)
	}
	c.pending = append(c.pending, t)
	return nil
}

func (c *MemoryCenter) RemoveAllPending(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = nil
	return nil
}

func (c *MemoryCenter) Pending(ctx context.Context) ([]core.Trigger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]core.Trigger, len(c.pending))
	copy(out, c.pending)
	sort.Slice(out, func(i, j int) bool {
		if out[i].Hour != out[j].Hour {
			return out[i].Hour < out[j].Hour
		}
		return out[i].Minute < out[j].Minute
	})
	return out, nil
}

var _ core.NotificationCenter = (*MemoryCenter)(nil)
