package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func (c *Cli) runGet(ctx context.Context, args []string) error {
	flags := flag.NewFlagSet("get", flag.ContinueOnError)
	refresh := flags.Bool("refresh", false, "bypass the cache and read from the server")
	if err := flags.Parse(args); err != nil {
		return err
	}

	rest := flags.Args()
	if len(rest) < 3 {
		return fmt.Errorf("usage: cellsync get [-refresh] MODEL SHEET REFERENCE")
	}

	modelPath := models.ModelPath(rest[0], rest[1])
	reference := rest[2]

	result, err := c.syncService.GetCell(ctx, modelPath, reference, *refresh)
	if err != nil {
		return fmt.Errorf("failed to get cell: %w", err)
	}

	c.io.Printf("Value:    %s\n", formatValue(result.Value))
	if result.Formula != "" {
		c.io.Printf("Formula:  %s\n", result.Formula)
	}
	c.io.Printf("Version:  %s\n", formatVersion(result.Version))
	c.io.Printf("Source:   %s\n", result.Source)
	if result.ModifiedBy != "" {
		c.io.Printf("Modified: %s by %s\n", formatMilli(result.Timestamp), result.ModifiedBy)
	} else {
		c.io.Printf("Modified: %s\n", formatMilli(result.Timestamp))
	}

	return nil
}
