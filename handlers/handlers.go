package handlers

import (
	"context"
	"time"

	"github.com/gobridge/akumabot/bot"
)

// Scheduler runs f once d has passed.
type Scheduler func(d time.Duration, f func())

// AfterFunc schedules f with time.AfterFunc.
func AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

// Counter reports how often each command has run.
type Counter interface {
	Counts(ctx context.Context) (map[string]int, error)
}

// Deps holds what the commands need besides the invocation itself.
type Deps struct {
	// After defaults to AfterFunc.
	After Scheduler
	Logf  bot.Logger
	// Counter enables the stats command when set.
	Counter Counter
}

// Register adds the standard command set to r.
func Register(r *bot.Registry, deps Deps) {
	if deps.After == nil {
		deps.After = AfterFunc
	}

	r.MustRegister(
		Quit(deps.After, deps.Logf),
		Leave(deps.After, deps.Logf),
		Join(),
		PMMe(),
		Ping(),
		Help(r),
		Kick(deps.After, deps.Logf),
		Calc(),
	)

	if deps.Counter != nil {
		r.MustRegister(Stats(deps.Counter))
	}
}

func usage(cmd *bot.Command) *bot.Future {
	return bot.Reply(cmd.UsageText())
}
