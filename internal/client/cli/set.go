package cli

import (
	"context"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func (c *Cli) runSet(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: cellsync set MODEL SHEET ADDRESS VALUE [FORMULA]")
	}

	intent := models.MutationIntent{
		Type:      models.OperationUpdate,
		ModelPath: models.ModelPath(args[0], args[1]),
		Address:   args[2],
		Value:     normalizeValue(args[3]),
	}
	if len(args) > 4 {
		intent.Formula = args[4]
	}

	result, err := c.syncService.SetCell(ctx, intent)
	if err != nil {
		return fmt.Errorf("failed to set cell: %w", err)
	}

	switch {
	case result.Conflict != nil:
		c.io.Printf("Conflict: server has a different value for %s\n", intent.Address)
		c.io.Printf("  server value:  %s\n", formatValue(result.Conflict.ServerValue))
		if result.Conflict.ServerFormula != "" {
			c.io.Printf("  server formula: %s\n", result.Conflict.ServerFormula)
		}
		if result.Conflict.ModifiedBy != "" {
			c.io.Printf("  modified by:   %s\n", result.Conflict.ModifiedBy)
		}
		c.io.Printf("Your change is kept locally as operation %s.\n", result.OperationID)
		c.io.Println("Run 'cellsync resolve' to pick a side.")

	case result.Queued:
		c.io.Printf("Queued for sync (operation %s)\n", result.OperationID)

	default:
		c.io.Printf("Synced, server version %d\n", result.ServerVersion)
	}

	return nil
}
