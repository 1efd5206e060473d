package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func (c *Cli) runLink(ctx context.Context, args []string) error {
	if len(args) < 4 {
		return fmt.Errorf("usage: cellsync link LOCAL MODEL SHEET REMOTE [DIRECTION]")
	}

	direction := models.SyncBidirectional
	if len(args) > 4 {
		direction = models.SyncDirection(args[4])
	}

	link, err := c.linkService.Link(ctx, args[0], models.ModelPath(args[1], args[2]), args[3], direction)
	if err != nil {
		return fmt.Errorf("failed to link cell: %w", err)
	}

	c.io.Printf("Linked %s -> %s/%s (%s)\n",
		link.LocalAddress, link.ModelPath, link.RemoteReference, link.SyncDirection)

	return nil
}

func (c *Cli) runUnlink(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: cellsync unlink LOCAL")
	}

	if err := c.linkService.Unlink(ctx, args[0]); err != nil {
		if errors.Is(err, storage.ErrLinkNotFound) {
			return fmt.Errorf("no link registered for %s", args[0])
		}
		return fmt.Errorf("failed to unlink cell: %w", err)
	}

	c.io.Printf("Unlinked %s\n", args[0])
	return nil
}

func (c *Cli) runLinks(ctx context.Context) error {
	linked, err := c.linkService.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list links: %w", err)
	}

	if len(linked) == 0 {
		c.io.Println("No linked cells.")
		return nil
	}

	c.io.Printf("=== Linked Cells (%d) ===\n", len(linked))
	c.io.Println()
	for _, link := range linked {
		c.io.Printf("%s -> %s/%s\n", link.LocalAddress, link.ModelPath, link.RemoteReference)
		c.io.Printf("  direction:   %s\n", link.SyncDirection)
		if link.LastValue != nil {
			c.io.Printf("  last value:  %s\n", formatValue(link.LastValue))
		}
		if !link.LastSyncedAt.IsZero() {
			c.io.Printf("  last synced: %s\n", link.LastSyncedAt.Format("2006-01-02 15:04:05"))
		}
		c.io.Println()
	}

	return nil
}
