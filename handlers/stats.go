package handlers

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/gobridge/akumabot/bot"
	"github.com/pkg/errors"
)

// Stats reports how often each command has been invoked.
func Stats(counter Counter) *bot.Command {
	return &bot.Command{
		Name:      "stats",
		AdminOnly: true,
		Usage:     "%s   Show how often each command has been used",
		Run: func(ctx context.Context, inv *bot.Invocation) *bot.Future {
			return bot.Async(func() (string, error) {
				counts, err := counter.Counts(ctx)
				if err != nil {
					return "", errors.Wrap(err, "counting invocations")
				}
				return formatCounts(counts), nil
			})
		},
	}
}

func formatCounts(counts map[string]int) string {
	if len(counts) == 0 {
		return "No commands recorded yet"
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s=%d", name, counts[name])
	}
	return "Invocations: " + strings.Join(parts, " ")
}
