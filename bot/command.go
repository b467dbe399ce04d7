package bot

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Chat is the chat network commands talk back to.
type Chat interface {
	// SendChannelMessage sends text to channel, addressed to addressee when it is not empty.
	SendChannelMessage(ctx context.Context, text, channel, addressee string) error
	SendPrivateMessage(ctx context.Context, text, nickname string) error
	JoinChannel(ctx context.Context, channel string) error
	LeaveChannel(ctx context.Context, channel string) error
	Kick(ctx context.Context, channel, nickname, reason string) error
	Disconnect() error
}

// Invocation is a single call of a command.
type Invocation struct {
	// Channel is empty for private messages.
	Channel  string
	Nickname string
	Args     []string
	Admin    bool
	Chat     Chat
}

// HandlerFunc runs a command.
type HandlerFunc func(ctx context.Context, inv *Invocation) *Future

// Command describes a chat command.
type Command struct {
	Name        string
	AdminOnly   bool
	PMOnly      bool
	ChannelOnly bool
	// Usage is a format string, its single %s is replaced by the command name.
	Usage string
	Run   HandlerFunc
}

// UsageText returns the usage line for the command.
func (c *Command) UsageText() string {
	return fmt.Sprintf(c.Usage, c.Name)
}

func (c *Command) validate() error {
	switch {
	case c.Name == "":
		return errors.New("command has no name")
	case c.Run == nil:
		return errors.Errorf("command %q has no handler", c.Name)
	case c.Usage == "":
		return errors.Errorf("command %q has no usage", c.Name)
	case c.PMOnly && c.ChannelOnly:
		return errors.Errorf("command %q cannot be both private only and channel only", c.Name)
	}
	return nil
}

// Registry holds the commands a Bot knows about.
// It is filled at startup and only read afterwards.
type Registry struct {
	commands map[string]*Command
	order    []*Command
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{commands: map[string]*Command{}}
}

// Register adds cmd to the registry. Registering a name twice is an error.
func (r *Registry) Register(cmd *Command) error {
	if err := cmd.validate(); err != nil {
		return err
	}
	if _, ok := r.commands[cmd.Name]; ok {
		return errors.Errorf("command %q already registered", cmd.Name)
	}

	r.commands[cmd.Name] = cmd
	r.order = append(r.order, cmd)
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(cmds ...*Command) {
	for _, cmd := range cmds {
		if err := r.Register(cmd); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the command registered under name.
func (r *Registry) Lookup(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// All returns the registered commands in registration order.
// Admin only commands are left out unless includeAdmin is set.
func (r *Registry) All(includeAdmin bool) []*Command {
	cmds := make([]*Command, 0, len(r.order))
	for _, cmd := range r.order {
		if cmd.AdminOnly && !includeAdmin {
			continue
		}
		cmds = append(cmds, cmd)
	}
	return cmds
}
