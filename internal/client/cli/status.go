package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Sync Status ===")
	c.io.Println()

	status, err := c.syncService.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get sync status: %w", err)
	}

	c.io.Printf("Connection: %s\n", status.Transport)
	c.io.Printf("Linked cells: %d\n", status.Links)
	c.io.Println()

	if status.Pending > 0 {
		c.io.Printf("Pending sync: %d operation(s) waiting\n", status.Pending)
		c.io.Println("Run 'cellsync sync' to replay the queue.")
	} else {
		c.io.Println("All local changes synchronized")
	}

	if status.Conflicts > 0 {
		c.io.Printf("Conflicts: %d operation(s) need manual resolution\n", status.Conflicts)
		c.io.Println("Run 'cellsync conflicts' to inspect them.")
	}

	if len(status.Presence) > 0 {
		c.io.Println()
		c.io.Println("Active collaborators:")
		for _, p := range status.Presence {
			c.io.Printf("  %s (%s) — %s\n", p.UserName, p.UserID, p.Status)
		}
	}

	stats, err := c.store.GetStats(ctx)
	if err != nil {
		// Статистика не критична для статуса
		c.io.Printf("\nWarning: failed to read store stats: %v\n", err)
		return nil
	}

	c.io.Println()
	c.io.Println("Local store:")
	c.io.Printf("  pending operations: %d\n", stats.PendingOperations)
	c.io.Printf("  cached values:      %d\n", stats.CachedValues)
	c.io.Printf("  linked cells:       %d\n", stats.LinkedCells)
	c.io.Printf("  sync metadata:      %d\n", stats.SyncMetadata)
	c.io.Printf("  preferences:        %d\n", stats.Preferences)

	return nil
}
