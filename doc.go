// Package drip is the Composition Root for the drip application.
//
// It connects the core business logic (Domain Layer) with the infrastructure
// adapters (Persistence and Notification Layers) using the Hexagonal
// Architecture pattern.
//
// Philosophy:
//
// Drip is a headless water tracker. It treats a health store as the single
// source of truth for intake samples: the application never keeps an
// optimistic running total, it always re-reads the store after a write.
// While the default implementation uses SQLite, drip's core is agnostic,
// allowing for other backends (e.g. HealthKit bridges, remote APIs).
//
// Features:
//
//   - **Hexagonal Architecture**: Core domain is isolated from persistence details.
//   - **Store Is Truth**: No optimistic aggregate updates, ever.
//   - **Unit Aware**: Samples are stored in a canonical unit and converted on read.
//   - **Reactive**: Out-of-band unit changes are watched and resynced automatically.
//   - **Reminders**: An hourly reminder schedule derived from a daily time window.
//   - **Extensible**: Custom stores, notifiers and preference backends via options.
//
// Usage:
//
//	// Initialize the app with functional options
//	app, err := drip.New(ctx, "./data",
//		drip.WithLogger(logger),
//	)
//
//	// Log a glass of water
//	err := app.Tracker.Add(ctx, 0)
package drip
