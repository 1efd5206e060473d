package cli

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// runWatch печатает live-обновления до отмены контекста (Ctrl+C)
func (c *Cli) runWatch(ctx context.Context) error {
	if c.transport == nil {
		return fmt.Errorf("live transport is not configured")
	}

	unsubUpdates := c.transport.Subscribe(api.MessageTypeCellUpdate, func(msg api.Message) {
		var update api.CellUpdate
		if err := json.Unmarshal(msg.Payload, &update); err != nil {
			return
		}
		for _, u := range update.Updates {
			if u.ModifiedBy != "" {
				c.io.Printf("[%s] %s = %s (v%d, by %s)\n",
					update.ModelPath, u.Reference, formatValue(u.Value), u.Version, u.ModifiedBy)
			} else {
				c.io.Printf("[%s] %s = %s (v%d)\n",
					update.ModelPath, u.Reference, formatValue(u.Value), u.Version)
			}
		}
	})
	defer unsubUpdates()

	unsubPresence := c.transport.Subscribe(api.MessageTypePresence, func(msg api.Message) {
		var p api.PresenceAnnouncement
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return
		}
		c.io.Printf("* %s is %s\n", p.UserName, p.Status)
	})
	defer unsubPresence()

	if err := c.transport.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect live transport: %w", err)
	}

	c.io.Println("Watching live updates, Ctrl+C to stop...")
	<-ctx.Done()

	return nil
}
