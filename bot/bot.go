package bot

import (
	"context"
	"time"

	"cloud.google.com/go/trace"
	"github.com/pkg/errors"
)

// FallbackReply is what users see when a command fails.
const FallbackReply = "Something terrible has happened!"

type (
	// Logger function
	Logger func(message string, args ...interface{})

	// Outcome is how a single command invocation ended
	Outcome int

	// Event describes a finished invocation of a registered command
	Event struct {
		Command  string
		Channel  string
		Nickname string
		Outcome  Outcome
		At       time.Time
	}

	// Recorder is told about every invocation of a registered command
	Recorder interface {
		Record(ctx context.Context, e Event) error
	}

	// Option configures a Bot
	Option func(*Bot)

	// Bot structure
	Bot struct {
		chat        Chat
		commands    *Registry
		trigger     *Trigger
		admins      map[string]struct{}
		logf        Logger
		recorder    Recorder
		limiter     *nickLimiter
		traceClient *trace.Client
		now         func() time.Time
	}
)

const (
	// Completed means the handler ran and its reply, if any, was sent.
	Completed Outcome = iota
	// Suppressed means the command was ignored without replying.
	Suppressed
	// Failed means the user got FallbackReply, or nothing when even sending failed.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Completed:
		return "completed"
	case Suppressed:
		return "suppressed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// WithRecorder reports every invocation of a registered command to r.
func WithRecorder(r Recorder) Option {
	return func(b *Bot) {
		b.recorder = r
	}
}

// WithTracing creates a trace span for each command. A nil client disables tracing.
func WithTracing(client *trace.Client) Option {
	return func(b *Bot) {
		b.traceClient = client
	}
}

// WithRateLimit lets each non-admin nickname run at most perMinute commands a minute.
// Zero or less disables the limit.
func WithRateLimit(perMinute int) Option {
	return func(b *Bot) {
		if perMinute <= 0 {
			b.limiter = nil
			return
		}
		b.limiter = newNickLimiter(perMinute)
	}
}

// NewBot will create a new bot answering to trigger on chat
func NewBot(chat Chat, commands *Registry, trigger *Trigger, admins []string, log Logger, opts ...Option) *Bot {
	b := &Bot{
		chat:     chat,
		commands: commands,
		trigger:  trigger,
		admins:   make(map[string]struct{}, len(admins)),
		logf:     log,
		now:      time.Now,
	}
	for _, admin := range admins {
		b.admins[admin] = struct{}{}
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// IsAdmin reports whether nickname may run admin only commands.
func (b *Bot) IsAdmin(nickname string) bool {
	_, ok := b.admins[nickname]
	return ok
}

// HandleChannelMessage runs the command in text if it is addressed to the bot
func (b *Bot) HandleChannelMessage(ctx context.Context, nickname, channel, text string) {
	name, argString, ok := b.trigger.Match(text)
	if !ok {
		return
	}

	b.RunCommand(ctx, name, channel, nickname, argString)
}

// HandlePrivateMessage runs the command in text. Private messages carry no trigger,
// the first word is the command name.
func (b *Bot) HandlePrivateMessage(ctx context.Context, nickname, text string) {
	name, argString := SplitCommand(text)
	if name == "" {
		return
	}

	b.RunCommand(ctx, name, "", nickname, argString)
}

// RunCommand runs the named command for nickname. An empty channel means the
// command arrived as a private message. Failures are logged and never returned.
func (b *Bot) RunCommand(ctx context.Context, name, channel, nickname, argString string) Outcome {
	cmd, ok := b.commands.Lookup(name)
	if !ok {
		b.logf("Ignoring unknown command %q from %q", name, nickname)
		return Suppressed
	}

	span := b.newSpan("b.RunCommand")
	span.SetLabel("command", name)
	defer span.Finish()
	ctx = trace.NewContext(ctx, span)

	outcome := b.dispatch(ctx, cmd, channel, nickname, argString)
	span.SetLabel("outcome", outcome.String())

	if b.recorder != nil {
		e := Event{
			Command:  name,
			Channel:  channel,
			Nickname: nickname,
			Outcome:  outcome,
			At:       b.now(),
		}
		if err := b.recorder.Record(ctx, e); err != nil {
			b.logf("failed to record %s command: %v", name, err)
		}
	}

	return outcome
}

func (b *Bot) newSpan(name string) *trace.Span {
	if b.traceClient == nil {
		return nil
	}
	return b.traceClient.NewSpan(name)
}

func (b *Bot) dispatch(ctx context.Context, cmd *Command, channel, nickname, argString string) Outcome {
	admin := b.IsAdmin(nickname)

	if cmd.AdminOnly && !admin {
		b.logf("Ignoring command %s with args %q from non-admin nick %q", cmd.Name, argString, nickname)
		return Suppressed
	}
	if channel == "" && cmd.ChannelOnly {
		return Suppressed
	}
	if channel != "" && cmd.PMOnly {
		return Suppressed
	}
	if !admin && b.limiter != nil && !b.limiter.allow(nickname) {
		b.logf("Ignoring command %s from %q: rate limit exceeded", cmd.Name, nickname)
		return Suppressed
	}

	outcome := Completed
	reply, err := b.invoke(ctx, cmd, channel, nickname, argString, admin)
	if err != nil {
		b.logf("Command %s with args %q from %q failed: %+v", cmd.Name, argString, nickname, err)
		reply = FallbackReply
		outcome = Failed
	}

	if err := b.send(ctx, reply, channel, nickname); err != nil {
		b.logf("failed to send reply to %q: %+v", nickname, err)
		return Failed
	}
	return outcome
}

func (b *Bot) invoke(ctx context.Context, cmd *Command, channel, nickname, argString string, admin bool) (reply string, err error) {
	args, err := SplitArgs(argString)
	if err != nil {
		return "", err
	}
	b.logf("Running %s command with args %q", cmd.Name, args)

	span := trace.FromContext(ctx).NewChild("handler." + cmd.Name)
	defer span.Finish()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("command %s panicked: %v", cmd.Name, r)
		}
	}()

	inv := &Invocation{
		Channel:  channel,
		Nickname: nickname,
		Args:     args,
		Admin:    admin,
		Chat:     b.chat,
	}
	future := cmd.Run(trace.NewContext(ctx, span), inv)
	if future == nil {
		return "", nil
	}
	return future.Wait(ctx)
}

func (b *Bot) send(ctx context.Context, text, channel, nickname string) error {
	if text == "" {
		return nil
	}

	span := trace.FromContext(ctx).NewChild("chat.Send")
	defer span.Finish()

	if channel == "" {
		return errors.Wrap(b.chat.SendPrivateMessage(ctx, text, nickname), "sending private message")
	}
	return errors.Wrap(b.chat.SendChannelMessage(ctx, text, channel, nickname), "sending channel message")
}
