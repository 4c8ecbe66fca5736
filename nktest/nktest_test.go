package nktest_test

import (
	"testing"
	"time"

	"github.com/cfallin/nk"
	"github.com/cfallin/nk/nktest"
	"github.com/stretchr/testify/require"
	"github.com/zoobzio/clockz"
)

func TestRunCompletesBeforeDeadline(t *testing.T) {
	host, err := nk.NewHost()
	require.NoError(t, err)

	ran := false
	_, err = host.CreateDPC(func(self *nk.DPC, data any) {
		ran = true
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, nktest.Run(host, 1, nktest.WithTimeout(5*time.Second)))
	require.True(t, ran)
	require.NoError(t, host.Destroy())
}

func TestRunExceedsDeadline(t *testing.T) {
	host, err := nk.NewHost()
	require.NoError(t, err)

	// A fiber that never exits on its own but yields cooperatively, so
	// Shutdown (triggered by the exceeded deadline) can still take effect.
	_, err = host.CreateFiber(func(self *nk.Fiber, _ any) {
		for {
			self.Yield()
		}
	}, nil, nil)
	require.NoError(t, err)

	clock := clockz.NewFakeClock()
	done := make(chan error, 1)
	go func() {
		done <- nktest.Run(host, 1, nktest.WithClock(clock), nktest.WithTimeout(time.Second))
	}()

	time.Sleep(10 * time.Millisecond)
	clock.Advance(2 * time.Second)
	clock.BlockUntilReady()

	err = <-done
	require.ErrorIs(t, err, nktest.ErrDeadlineExceeded)
}
