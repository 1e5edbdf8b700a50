package reactivity_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aretw0/drip"
	"github.com/aretw0/drip/pkg/core"
)

// setupWatchTest wires a full app and starts the tracker loop.
func setupWatchTest(t *testing.T) (string, *drip.App) {
	t.Helper()
	tmp := t.TempDir()

	app, err := drip.New(context.Background(), tmp)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		// Run blocks until the context is cancelled.
		_ = app.Tracker.Run(ctx)
	}()

	return tmp, app
}

// TestWatch_UnitSidecarModification verifies that an out-of-band edit of the
// unit sidecar is picked up and the tracker resyncs without being asked.
func TestWatch_UnitSidecarModification(t *testing.T) {
	tmp, app := setupWatchTest(t)
	ctx := context.Background()

	require.NoError(t, app.Tracker.Add(ctx, 500))

	// Give the watcher a moment to arm before touching the sidecar.
	time.Sleep(200 * time.Millisecond)

	// Another client switches the preferred unit to liters.
	sidecar := filepath.Join(tmp, "unit.yaml")
	require.NoError(t, os.WriteFile(sidecar, []byte("unit: L\n"), 0o644))

	require.Eventually(t, func() bool {
		return app.Tracker.Unit() == core.Liters
	}, 5*time.Second, 50*time.Millisecond, "tracker never adopted the new unit")

	// The aggregate must have been re-read in the new unit as well.
	require.Eventually(t, func() bool {
		agg := app.Tracker.Aggregate()
		return agg.Unit == core.Liters && agg.Total == 0.5
	}, 5*time.Second, 50*time.Millisecond, "aggregate was not refreshed in liters")
}

// TestWatch_SameUnitRewriteIsSilent verifies that rewriting the sidecar with
// the unit it already holds does not disturb the tracker.
func TestWatch_SameUnitRewriteIsSilent(t *testing.T) {
	tmp, app := setupWatchTest(t)
	ctx := context.Background()

	require.NoError(t, app.Tracker.Add(ctx, 250))
	require.NoError(t, app.Tracker.RefreshAggregate(ctx))
	before := app.Tracker.Aggregate()

	time.Sleep(200 * time.Millisecond)

	sidecar := filepath.Join(tmp, "unit.yaml")
	require.NoError(t, os.WriteFile(sidecar, []byte("unit: ml\n"), 0o644))

	// The unit did not actually change, so nothing may be converted.
	time.Sleep(500 * time.Millisecond)
	after := app.Tracker.Aggregate()
	require.Equal(t, before.Total, after.Total)
	require.Equal(t, before.Unit, after.Unit)
	require.Equal(t, core.Milliliters, app.Tracker.Unit())
}
