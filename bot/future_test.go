package bot

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestFuture(t *testing.T) {
	ctx := context.Background()

	t.Run("resolved reply", func(t *testing.T) {
		reply, err := Replyf("%d apples", 3).Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, "3 apples", reply)
	})

	t.Run("failure", func(t *testing.T) {
		cause := errors.New("broken")
		_, err := Fail(cause).Wait(ctx)
		require.Equal(t, cause, err)
	})

	t.Run("async waits for the result", func(t *testing.T) {
		release := make(chan struct{})
		f := Async(func() (string, error) {
			<-release
			return "late", nil
		})

		select {
		case <-f.Done():
			t.Fatal("future resolved too early")
		default:
		}

		close(release)
		reply, err := f.Wait(ctx)
		require.NoError(t, err)
		require.Equal(t, "late", reply)
	})

	t.Run("async panic becomes an error", func(t *testing.T) {
		_, err := Async(func() (string, error) {
			panic("nope")
		}).Wait(ctx)
		require.Error(t, err)
	})

	t.Run("wait honours the context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
		defer cancel()

		_, err := Async(func() (string, error) {
			time.Sleep(time.Second)
			return "too late", nil
		}).Wait(ctx)
		require.Equal(t, context.DeadlineExceeded, errors.Cause(err))
	})
}
