// Command reset wipes every account back to the starting balance. Catalog
// rows are kept. Run with -dry-run to print the current totals only.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/osse101/CaseBot_Go/internal/bootstrap"
	"github.com/osse101/CaseBot_Go/internal/config"
)

func main() {
	var (
		dryRun bool
		yes    bool
	)
	flag.BoolVar(&dryRun, "dry-run", false, "print economy totals without resetting")
	flag.BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	flag.Parse()

	if err := run(dryRun, yes); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(dryRun, yes bool) error {
	_ = godotenv.Load()

	// API_KEY is a server concern, so only the store settings are checked here
	cfg, err := config.Parse()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.StoreEngine == config.EngineMemory {
		return fmt.Errorf("STORE_ENGINE=memory has nothing to reset")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.GetSystemStats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read economy totals: %w", err)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(stats); err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	if !yes {
		fmt.Printf("Reset %d accounts to a balance of %d? Type 'reset' to confirm: ", stats.TotalUsers, cfg.StartingBalance)
		var answer string
		if _, err := fmt.Scanln(&answer); err != nil || answer != "reset" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	n, err := store.ResetAllUserData(ctx, cfg.StartingBalance)
	if err != nil {
		return fmt.Errorf("reset failed: %w", err)
	}
	fmt.Printf("Reset %d accounts.\n", n)
	return nil
}
