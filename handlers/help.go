package handlers

import (
	"context"
	"strings"

	"github.com/gobridge/akumabot/bot"
)

// Help lists the commands in r, or shows the usage of one of them.
// Admin only commands are listed for admins only.
func Help(r *bot.Registry) *bot.Command {
	cmd := &bot.Command{
		Name:  "help",
		Usage: "%s [<command>]   Show available, or more info about a specific one",
	}
	cmd.Run = func(ctx context.Context, inv *bot.Invocation) *bot.Future {
		switch len(inv.Args) {
		case 0:
			var names []string
			for _, c := range r.All(inv.Admin) {
				names = append(names, c.Name)
			}
			return bot.Reply("Available commands are: " + strings.Join(names, " "))
		case 1:
			other, ok := r.Lookup(inv.Args[0])
			if !ok {
				return bot.Replyf("Unknown command %s", inv.Args[0])
			}
			return usage(other)
		default:
			return usage(cmd)
		}
	}
	return cmd
}
