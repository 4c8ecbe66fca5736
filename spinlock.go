package nk

import (
	"runtime"
	"sync/atomic"
)

// spinlock is the Go analog of the original's pthread_spinlock_t. Every
// port, mutex, condvar, barrier, and freelist in this package guards its own
// queue and inner flags with one of these, held only long enough to
// manipulate that object's own state (see §5 of SPEC_FULL.md: at most one
// spinlock is held by any goroutine at any instant, and it is released
// before yielding or touching the host's runq).
//
// A spinlock, not a sync.Mutex, is used here because the sections it guards
// never block: no spinlock critical section in this package ever calls
// Fiber.Yield or touches the runq's condition variable. A blocking mutex
// would be safe too, but would cost a park/unpark cycle for what is always a
// handful of pointer writes.
type spinlock struct {
	held atomic.Bool
}

func (s *spinlock) Lock() {
	for !s.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (s *spinlock) Unlock() {
	s.held.Store(false)
}
