// Spike: hammer the SQLite health store with concurrent writers and verify
// the re-read total matches what was written. SQLite serializes writers, so
// this checks that nothing is lost or double counted under contention.
package main

import (
	"context"
	"log"
	"os"
	"sync"
	"time"

	"github.com/aretw0/drip/pkg/adapters/sqlite"
	"github.com/aretw0/drip/pkg/core"
)

const (
	WorkerCount = 100
	EntryValue  = 250
)

func main() {
	log.Println("Starting spike: drip concurrency test")

	tmpDir, err := os.MkdirTemp("", "drip-spike-*")
	if err != nil {
		log.Fatalf("Failed to create temp dir: %v", err)
	}
	defer os.RemoveAll(tmpDir)

	log.Printf("Working directory: %s", tmpDir)

	store, err := sqlite.New(sqlite.Config{
		Path:   tmpDir,
		Source: "spike",
	})
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.RequestAuthorization(ctx); err != nil {
		log.Fatalf("Authorization failed: %v", err)
	}

	start := time.Now()

	var wg sync.WaitGroup
	wg.Add(WorkerCount)

	for i := 0; i < WorkerCount; i++ {
		go func(id int) {
			defer wg.Done()
			now := time.Now()
			entry := core.Entry{
				Value:  EntryValue,
				Unit:   core.Milliliters,
				Source: "spike",
				Start:  now,
				End:    now,
			}
			if err := store.Save(ctx, entry); err != nil {
				log.Printf("[Error] Save %d failed: %v", id, err)
			}
		}(i)
	}

	wg.Wait()
	duration := time.Since(start)

	log.Println("All goroutines finished.")
	log.Printf("Total time: %v", duration)
	log.Printf("Throughput: %.2f writes/sec", float64(WorkerCount)/duration.Seconds())

	// Final validation: the store must report exactly what was written.
	dayStart := core.StartOfDay(time.Now())
	total, exists, err := store.SumToday(ctx, dayStart, dayStart.Add(24*time.Hour))
	if err != nil {
		log.Fatalf("SumToday failed: %v", err)
	}

	want := float64(WorkerCount * EntryValue)
	if !exists || total != want {
		log.Fatalf("FAILURE: expected total %.0f, got %.0f (exists=%v)", want, total, exists)
	}
	log.Printf("SUCCESS: total %.0f matches %d writers x %d ml.", total, WorkerCount, EntryValue)
}
