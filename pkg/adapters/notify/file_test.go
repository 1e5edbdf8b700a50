package notify_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/drip/pkg/adapters/notify"
	"github.com/aretw0/drip/pkg/core"
)

func trigger(id string, hour, minute int) core.Trigger {
	return core.Trigger{
		ID:      id,
		Hour:    hour,
		Minute:  minute,
		Title:   core.ReminderTitle,
		Body:    core.ReminderBody,
		Repeats: true,
	}
}

func TestFileCenter_PendingSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.TODO()

	c, err := notify.NewFile(notify.Config{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	if granted, err := c.RequestAuthorization(ctx, core.AuthOptions{Alert: true}); err != nil || !granted {
		t.Fatalf("expected grant, got (%v, %v)", granted, err)
	}

	if err := c.Add(ctx, trigger("b", 10, 15)); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(ctx, trigger("a", 8, 30)); err != nil {
		t.Fatal(err)
	}

	reopened, err := notify.NewFile(notify.Config{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	status, err := reopened.AuthorizationStatus(ctx)
	if err != nil || status != core.AuthAuthorized {
		t.Errorf("authorization not persisted: (%q, %v)", status, err)
	}
	pending, err := reopened.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 {
		t.Fatalf("expected 2 pending triggers, got %d", len(pending))
	}
	// Sorted by firing time, not insertion order.
	if pending[0].ID != "a" || pending[1].ID != "b" {
		t.Errorf("expected firing-time order, got %s then %s", pending[0].ID, pending[1].ID)
	}
}

func TestFileCenter_RemoveAllPending(t *testing.T) {
	c, err := notify.NewFile(notify.Config{Path: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.TODO()
	if _, err := c.RequestAuthorization(ctx, core.AuthOptions{}); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if err := c.Add(ctx, trigger(string(rune('a'+i)), 8+i, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if err := c.RemoveAllPending(ctx); err != nil {
		t.Fatal(err)
	}
	pending, err := c.Pending(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 0 {
		t.Errorf("expected empty pending set, got %d", len(pending))
	}
}

func TestFileCenter_LimitIsolatesInstalls(t *testing.T) {
	c, err := notify.NewFile(notify.Config{Path: t.TempDir(), Limit: 2})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.TODO()
	if _, err := c.RequestAuthorization(ctx, core.AuthOptions{}); err != nil {
		t.Fatal(err)
	}

	if err := c.Add(ctx, trigger("a", 8, 0)); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(ctx, trigger("b", 9, 0)); err != nil {
		t.Fatal(err)
	}
	err = c.Add(ctx, trigger("c", 10, 0))
	if !errors.Is(err, notify.ErrTriggerLimit) {
		t.Fatalf("expected ErrTriggerLimit, got %v", err)
	}

	pending, _ := c.Pending(ctx)
	if len(pending) != 2 {
		t.Errorf("limit overflow must not disturb installed triggers, got %d", len(pending))
	}
}

func TestFileCenter_StickyDenial(t *testing.T) {
	dir := t.TempDir()
	ctx := context.TODO()

	c, err := notify.NewFile(notify.Config{Path: dir, Deny: true})
	if err != nil {
		t.Fatal(err)
	}
	granted, err := c.RequestAuthorization(ctx, core.AuthOptions{Alert: true, Badge: true, Sound: true})
	if err != nil {
		t.Fatal(err)
	}
	if granted {
		t.Fatal("expected denial")
	}

	// Reopen without the deny flag: the recorded denial still wins.
	reopened, err := notify.NewFile(notify.Config{Path: dir})
	if err != nil {
		t.Fatal(err)
	}
	granted, err = reopened.RequestAuthorization(ctx, core.AuthOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if granted {
		t.Error("persisted denial must not be re-promptable")
	}
}

func TestMemoryCenter_MirrorsFileSemantics(t *testing.T) {
	c := notify.NewMemory(notify.WithLimit(1))
	ctx := context.TODO()

	granted, err := c.RequestAuthorization(ctx, core.AuthOptions{})
	if err != nil || !granted {
		t.Fatalf("expected grant, got (%v, %v)", granted, err)
	}
	if err := c.Add(ctx, trigger("a", 8, 0)); err != nil {
		t.Fatal(err)
	}
	if err := c.Add(ctx, trigger("b", 9, 0)); !errors.Is(err, notify.ErrTriggerLimit) {
		t.Fatalf("expected ErrTriggerLimit, got %v", err)
	}
	if err := c.RemoveAllPending(ctx); err != nil {
		t.Fatal(err)
	}
	pending, _ := c.Pending(ctx)
	if len(pending) != 0 {
		t.Errorf("expected empty pending set, got %d", len(pending))
	}
}

func TestMemoryCenter_Denial(t *testing.T) {
	c := notify.NewMemory(notify.WithDeny(true))
	ctx := context.TODO()

	granted, err := c.RequestAuthorization(ctx, core.AuthOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if granted {
		t.Fatal("expected denial")
	}
	status, _ := c.AuthorizationStatus(ctx)
	if status != core.AuthDenied {
		t.Errorf("expected denied status, got %q", status)
	}
}
