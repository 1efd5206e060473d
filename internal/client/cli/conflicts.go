package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runConflicts(ctx context.Context) error {
	conflicted, err := c.syncService.Conflicts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list conflicts: %w", err)
	}

	if len(conflicted) == 0 {
		c.io.Println("No conflicts.")
		return nil
	}

	c.io.Printf("=== Conflicts (%d) ===\n", len(conflicted))
	c.io.Println()
	for _, op := range conflicted {
		c.io.Printf("Operation %s\n", op.ID)
		c.io.Printf("  cell:          %s %s\n", op.ModelPath, op.Address)
		c.io.Printf("  local value:   %s\n", formatValue(op.Value))
		c.io.Printf("  server value:  %s\n", formatValue(op.Conflict.ServerValue))
		if op.Conflict.ServerFormula != "" {
			c.io.Printf("  server formula: %s\n", op.Conflict.ServerFormula)
		}
		if op.Conflict.ModifiedBy != "" {
			c.io.Printf("  modified by:   %s at %s\n",
				op.Conflict.ModifiedBy, formatMilli(op.Conflict.ServerTimestamp))
		}
		c.io.Println()
	}

	c.io.Println("Resolve with: cellsync resolve ID keep|discard")
	return nil
}

// runResolve разрешает конфликт: keep возвращает локальную запись в очередь,
// discard принимает серверную сторону и удаляет операцию.
func (c *Cli) runResolve(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: cellsync resolve ID keep|discard")
	}

	id, action := args[0], args[1]

	switch action {
	case "keep":
		if err := c.syncService.Requeue(ctx, id); err != nil {
			return fmt.Errorf("failed to requeue operation: %w", err)
		}
		c.io.Printf("Operation %s will be retried on next sync.\n", id)

	case "discard":
		if err := c.syncService.Discard(ctx, id); err != nil {
			return fmt.Errorf("failed to discard operation: %w", err)
		}
		c.io.Printf("Operation %s discarded, server value wins.\n", id)

	default:
		return fmt.Errorf("unknown resolution %q, expected keep or discard", action)
	}

	return nil
}
