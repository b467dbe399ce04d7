package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func noop(context.Context, *Invocation) *Future { return NoReply() }

func TestRegistry(t *testing.T) {
	t.Run("keeps registration order", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(
			&Command{Name: "b", Usage: "%s", Run: noop},
			&Command{Name: "a", Usage: "%s", Run: noop, AdminOnly: true},
			&Command{Name: "c", Usage: "%s", Run: noop},
		)

		var names []string
		for _, cmd := range r.All(true) {
			names = append(names, cmd.Name)
		}
		require.Equal(t, []string{"b", "a", "c"}, names)

		names = nil
		for _, cmd := range r.All(false) {
			names = append(names, cmd.Name)
		}
		require.Equal(t, []string{"b", "c"}, names)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(&Command{Name: "a", Usage: "%s", Run: noop}))
		require.Error(t, r.Register(&Command{Name: "a", Usage: "%s again", Run: noop}))
		require.Panics(t, func() {
			r.MustRegister(&Command{Name: "a", Usage: "%s", Run: noop})
		})

		cmd, ok := r.Lookup("a")
		require.True(t, ok)
		require.Equal(t, "a", cmd.UsageText())
	})

	t.Run("rejects invalid commands", func(t *testing.T) {
		invalid := []*Command{
			{Usage: "%s", Run: noop},
			{Name: "a", Usage: "%s"},
			{Name: "a", Run: noop},
			{Name: "a", Usage: "%s", Run: noop, PMOnly: true, ChannelOnly: true},
		}
		for _, cmd := range invalid {
			require.Error(t, NewRegistry().Register(cmd))
		}
	})

	t.Run("lookup is case sensitive", func(t *testing.T) {
		r := NewRegistry()
		r.MustRegister(&Command{Name: "ping", Usage: "%s", Run: noop})
		_, ok := r.Lookup("PING")
		require.False(t, ok)
	})
}

func TestUsageText(t *testing.T) {
	cmd := &Command{Name: "calc", Usage: "%s <expression>   Evaluate an expression", Run: noop}
	expected := "calc <expression>   Evaluate an expression"
	if actual := cmd.UsageText(); actual != expected {
		t.Errorf("expected: %q\nactual:%q", expected, actual)
	}
}
