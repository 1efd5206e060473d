package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду пользователя
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "status":
		return c.runStatus(ctx)
	case "set":
		return c.runSet(ctx, args)
	case "get":
		return c.runGet(ctx, args)
	case "link":
		return c.runLink(ctx, args)
	case "unlink":
		return c.runUnlink(ctx, args)
	case "links":
		return c.runLinks(ctx)
	case "sync":
		return c.runSync(ctx)
	case "conflicts":
		return c.runConflicts(ctx)
	case "resolve":
		return c.runResolve(ctx, args)
	case "watch":
		return c.runWatch(ctx)
	case "prefs":
		return c.runPrefs(ctx, args)
	case "clear":
		return c.runClear(ctx)
	default:
		PrintUsage()
		return fmt.Errorf("unknown command: %s", command)
	}
}
