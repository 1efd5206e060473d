package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
)

// runPrefs: без аргументов печатает все настройки, с ключом читает одну,
// с ключом и значением записывает.
func (c *Cli) runPrefs(ctx context.Context, args []string) error {
	switch len(args) {
	case 0:
		prefs, err := c.store.GetAllPreferences(ctx)
		if err != nil {
			return fmt.Errorf("failed to list preferences: %w", err)
		}
		if len(prefs) == 0 {
			c.io.Println("No preferences set.")
			return nil
		}
		for _, p := range prefs {
			c.io.Printf("%s = %s\n", p.Key, p.Value)
		}
		return nil

	case 1:
		pref, err := c.store.GetPreference(ctx, args[0])
		if err != nil {
			if errors.Is(err, storage.ErrPreferenceNotFound) {
				return fmt.Errorf("preference %q is not set", args[0])
			}
			return fmt.Errorf("failed to get preference: %w", err)
		}
		c.io.Printf("%s = %s\n", pref.Key, pref.Value)
		return nil

	default:
		if err := c.store.SetPreference(ctx, args[0], args[1]); err != nil {
			return fmt.Errorf("failed to set preference: %w", err)
		}
		c.io.Printf("%s = %s\n", args[0], args[1])
		return nil
	}
}
