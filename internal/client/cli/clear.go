package cli

import (
	"context"
	"fmt"
)

// runClear стирает все локальные данные после явного подтверждения
func (c *Cli) runClear(ctx context.Context) error {
	pending, err := c.syncService.PendingCount(ctx)
	if err != nil {
		return fmt.Errorf("failed to count pending operations: %w", err)
	}

	if pending > 0 {
		c.io.Printf("Warning: %d pending operation(s) will be lost.\n", pending)
	}

	ok, err := c.io.Confirm("Wipe all local data?")
	if err != nil {
		return fmt.Errorf("failed to read confirmation: %w", err)
	}
	if !ok {
		c.io.Println("Aborted.")
		return nil
	}

	if err := c.store.ClearAll(ctx); err != nil {
		return fmt.Errorf("failed to clear local store: %w", err)
	}

	c.io.Println("Local data cleared.")
	return nil
}
