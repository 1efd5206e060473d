package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runSync(ctx context.Context) error {
	pending, err := c.syncService.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending operations: %w", err)
	}

	if pending == 0 {
		c.io.Println("Nothing to sync.")
		return nil
	}

	c.io.Printf("Replaying %d pending operation(s)...\n", pending)

	result, err := c.syncService.Drain(ctx)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	c.io.Printf("Synced: %d\n", result.Synced)
	if result.Conflicts > 0 {
		c.io.Printf("Conflicts: %d (run 'cellsync conflicts')\n", result.Conflicts)
	}
	if result.Failed > 0 {
		c.io.Printf("Failed: %d (will retry on next sync)\n", result.Failed)
	}
	if result.Terminal > 0 {
		c.io.Printf("Gave up: %d (run 'cellsync resolve ID keep' to retry)\n", result.Terminal)
	}
	if result.Skipped > 0 {
		c.io.Printf("Skipped: %d awaiting manual resolution\n", result.Skipped)
	}

	return nil
}
