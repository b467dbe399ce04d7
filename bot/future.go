package bot

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

// Future is the eventual reply of a command. A Future returned by Reply or Fail
// is resolved already, one returned by Async resolves when its function returns.
// Either way the dispatcher waits on it the same way.
type Future struct {
	done  chan struct{}
	reply string
	err   error
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

func (f *Future) resolve(reply string, err error) {
	f.reply, f.err = reply, err
	close(f.done)
}

// Reply returns a resolved Future. An empty text means nothing is sent back.
func Reply(text string) *Future {
	f := newFuture()
	f.resolve(text, nil)
	return f
}

// Replyf is Reply with fmt.Sprintf formatting.
func Replyf(format string, args ...interface{}) *Future {
	return Reply(fmt.Sprintf(format, args...))
}

// NoReply returns a resolved Future that sends nothing back.
func NoReply() *Future {
	return Reply("")
}

// Fail returns a Future that resolved with err.
func Fail(err error) *Future {
	f := newFuture()
	f.resolve("", err)
	return f
}

// Async runs fn on its own goroutine. A panic in fn resolves the Future with an error.
func Async(fn func() (string, error)) *Future {
	f := newFuture()
	go func() {
		var (
			reply string
			err   error
		)
		defer func() {
			if r := recover(); r != nil {
				err = errors.Errorf("panic: %v", r)
			}
			f.resolve(reply, err)
		}()
		reply, err = fn()
	}()
	return f
}

// Done is closed once the Future has resolved.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the Future resolves or ctx is done.
func (f *Future) Wait(ctx context.Context) (string, error) {
	select {
	case <-f.done:
		return f.reply, f.err
	case <-ctx.Done():
		return "", errors.Wrap(ctx.Err(), "waiting for reply")
	}
}
