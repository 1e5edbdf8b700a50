package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aretw0/drip/pkg/adapters/sqlite"
	"github.com/aretw0/drip/pkg/core"
)

func main() {
	count := flag.Int("count", 1000, "Number of entries to generate")
	keep := flag.Bool("keep", false, "Keep the benchmark store after running")
	flag.Parse()

	benchDir, err := os.MkdirTemp("", "drip_bench_")
	if err != nil {
		panic(err)
	}
	defer func() {
		if !*keep {
			os.RemoveAll(benchDir)
		} else {
			fmt.Printf("Keeping bench dir: %s\n", benchDir)
		}
	}()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	store, err := sqlite.New(sqlite.Config{
		Path:   benchDir,
		Source: "bench",
		Logger: logger,
	})
	if err != nil {
		panic(err)
	}
	defer store.Close()

	ctx := context.TODO()
	if _, err := store.RequestAuthorization(ctx); err != nil {
		panic(err)
	}

	fmt.Printf("Inserting %d entries in %s...\n", *count, benchDir)
	startGen := time.Now()
	now := time.Now()
	for i := 0; i < *count; i++ {
		end := now.Add(-time.Duration(i) * time.Second)
		entry := core.Entry{
			Value:  250,
			Unit:   core.Milliliters,
			Source: "bench",
			Start:  end,
			End:    end,
		}
		if err := store.Save(ctx, entry); err != nil {
			panic(err)
		}
	}
	genDuration := time.Since(startGen)
	fmt.Printf("Insertion took: %v (%.0f entries/sec)\n", genDuration, float64(*count)/genDuration.Seconds())

	dayStart := core.StartOfDay(now)
	dayEnd := dayStart.Add(24 * time.Hour)

	// Run 1: Cold (first read after the write burst)
	fmt.Println("Running SumToday (Run 1 - Cold)...")
	startSum := time.Now()
	total, _, err := store.SumToday(ctx, dayStart, dayEnd)
	if err != nil {
		panic(err)
	}
	duration := time.Since(startSum)
	fmt.Printf("Run 1 Result: %v (Total: %.0f)\n", duration, total)

	// Run 2: reopen the store to simulate a fresh CLI command run.
	store2, err := sqlite.New(sqlite.Config{
		Path:   benchDir,
		Source: "bench",
		Logger: logger,
	})
	if err != nil {
		panic(err)
	}
	defer store2.Close()

	fmt.Println("Running SumToday (Run 2 - Reopened)...")
	startSum2 := time.Now()
	total2, _, err := store2.SumToday(ctx, dayStart, dayEnd)
	if err != nil {
		panic(err)
	}
	duration2 := time.Since(startSum2)
	fmt.Printf("Run 2 Result: %v (Total: %.0f)\n", duration2, total2)

	fmt.Printf("--------------------------------------------------\n")
	fmt.Printf("Benchmark Result (%d entries):\n", *count)
	fmt.Printf("  Insert: %v\n", genDuration)
	fmt.Printf("  Cold:   %v\n", duration)
	fmt.Printf("  Reopen: %v\n", duration2)
	fmt.Printf("--------------------------------------------------\n")
}
