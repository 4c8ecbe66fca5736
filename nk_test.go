package nk_test

import (
	"testing"

	"github.com/cfallin/nk"
	"github.com/stretchr/testify/require"
)

func TestSingleDPC(t *testing.T) {
	host, err := nk.NewHost()
	require.NoError(t, err)

	value := 0
	_, err = host.CreateDPC(func(self *nk.DPC, data any) {
		value = 42
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, host.Run(1))
	require.Equal(t, 42, value)
	require.NoError(t, host.Destroy())
}

func TestTwoFibersFromDPC(t *testing.T) {
	host, err := nk.NewHost()
	require.NoError(t, err)

	var a, b, dpcFlag int

	_, err = host.CreateDPC(func(self *nk.DPC, data any) {
		_, ferr := host.CreateFiber(func(_ *nk.Fiber, _ any) {
			a = 1
		}, nil, nil)
		require.NoError(t, ferr)

		_, ferr = host.CreateFiber(func(_ *nk.Fiber, _ any) {
			b = 1
		}, nil, nil)
		require.NoError(t, ferr)

		dpcFlag = 1
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, host.Run(2))
	require.Equal(t, 1, a)
	require.Equal(t, 1, b)
	require.Equal(t, 1, dpcFlag)
	require.NoError(t, host.Destroy())
}

func TestCrossPing(t *testing.T) {
	host, err := nk.NewHost()
	require.NoError(t, err)

	portA, err := host.CreatePort(nk.PortFiber)
	require.NoError(t, err)
	portB, err := host.CreatePort(nk.PortFiber)
	require.NoError(t, err)

	targetA, targetB := 42, 84

	_, err = host.CreateFiber(func(self *nk.Fiber, _ any) {
		require.NoError(t, portB.Send(portA, targetA, nil))
		msg, rerr := portA.Recv()
		require.NoError(t, rerr)
		targetA = msg.Data1.(int)
		msg.Destroy()
	}, nil, nil)
	require.NoError(t, err)

	_, err = host.CreateFiber(func(self *nk.Fiber, _ any) {
		require.NoError(t, portA.Send(portB, targetB, nil))
		msg, rerr := portB.Recv()
		require.NoError(t, rerr)
		targetB = msg.Data1.(int)
		msg.Destroy()
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, host.Run(2))
	require.Equal(t, 84, targetA)
	require.Equal(t, 42, targetB)
	require.NoError(t, host.Destroy())
}

func TestRing(t *testing.T) {
	const n = 100
	host, err := nk.NewHost()
	require.NoError(t, err)

	ports := make([]*nk.Port, n)
	for i := range ports {
		p, perr := host.CreatePort(nk.PortFiber)
		require.NoError(t, perr)
		ports[i] = p
	}

	doneFlags := make([]int, n)
	for i := 0; i < n; i++ {
		i := i
		next := ports[(i+1)%n]
		_, ferr := host.CreateFiber(func(self *nk.Fiber, _ any) {
			msg, rerr := ports[i].Recv()
			require.NoError(t, rerr)
			token := msg.Data1.(int)
			msg.Destroy()
			doneFlags[i] = 1
			if token < n {
				require.NoError(t, next.Send(ports[i], token+1, nil))
			}
		}, nil, nil)
		require.NoError(t, ferr)
	}

	_, err = host.CreateDPC(func(self *nk.DPC, _ any) {
		require.NoError(t, ports[0].Send(nil, 1, nil))
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, host.Run(4))
	for i := 0; i < n; i++ {
		require.Equal(t, 1, doneFlags[i], "fiber %d never ran", i)
	}
	require.NoError(t, host.Destroy())
}

func TestMutexCounter(t *testing.T) {
	const fibers = 10
	const iterations = 1000

	host, err := nk.NewHost()
	require.NoError(t, err)

	mu, err := host.CreateMutex()
	require.NoError(t, err)

	counter := 0
	for i := 0; i < fibers; i++ {
		_, ferr := host.CreateFiber(func(self *nk.Fiber, _ any) {
			for j := 0; j < iterations; j++ {
				mu.Lock()
				v := counter
				self.Yield()
				counter = v + 1
				mu.Unlock()
			}
		}, nil, nil)
		require.NoError(t, ferr)
	}

	require.NoError(t, host.Run(4))
	require.Equal(t, fibers*iterations, counter)
	require.NoError(t, host.Destroy())
}

func TestBarrierPhases(t *testing.T) {
	const workers = 100
	const phases = 100

	host, err := nk.NewHost()
	require.NoError(t, err)

	b1, err := host.CreateBarrier(workers + 1)
	require.NoError(t, err)
	b2, err := host.CreateBarrier(workers + 1)
	require.NoError(t, err)
	mu, err := host.CreateMutex()
	require.NoError(t, err)

	var doneCount int
	var okIters int

	for i := 0; i < workers; i++ {
		_, ferr := host.CreateFiber(func(self *nk.Fiber, _ any) {
			for p := 0; p < phases; p++ {
				b1.Wait()
				mu.Lock()
				doneCount++
				mu.Unlock()
				b2.Wait()
			}
		}, nil, nil)
		require.NoError(t, ferr)
	}

	_, err = host.CreateFiber(func(self *nk.Fiber, _ any) {
		for p := 0; p < phases; p++ {
			b1.Wait()
			b2.Wait()
			// By now every worker has incremented doneCount and reached
			// b2 itself, so this read is race-free: no worker proceeds
			// into phase p+1's increment window until the master (this
			// fiber) also arrives at phase p+1's b1, which happens only
			// after the reset below.
			if doneCount == workers {
				okIters++
			}
			doneCount = 0
		}
	}, nil, nil)
	require.NoError(t, err)

	require.NoError(t, host.Run(8))
	require.Equal(t, phases, okIters)
	require.NoError(t, host.Destroy())
}
