package nk

import "runtime"

// yieldReason is the three-valued tag a fiber's context switch returns to
// its Worker: the only communication channel from a yielding fiber to its
// Worker (spec.md §4.2).
type yieldReason int

const (
	// yieldReady is an ordinary cooperative yield: the Worker must push the
	// fiber back onto the ready queue.
	yieldReady yieldReason = iota
	// yieldWaiting means the fiber has already placed itself on some wait
	// queue; the Worker must not re-enqueue it.
	yieldWaiting
	// yieldZombie means the fiber is exiting; the Worker must destroy it.
	yieldZombie
)

// FiberFunc is a fiber's entry point. self is passed explicitly — the Go
// analog of nk_thd_entrypoint(nk_thd *self, void *data) — rather than
// recovered from implicit thread-local state, because callers that already
// hold the pointer they were just handed should use it directly. FiberSelf
// is still available for code that doesn't have it in hand.
type FiberFunc func(self *Fiber, data any)

// FiberAttrs configures fiber creation. A nil *FiberAttrs uses the Host's
// configured defaults.
type FiberAttrs struct {
	// StackSize bounds the fiber's stack, validated against the Host's
	// configured min/max. Per SPEC_FULL.md §0 this backs no real
	// allocation — a Fiber's stack is a Go goroutine stack, managed by the
	// runtime — but is still validated for API fidelity with the original's
	// nk_thd_attrs.stacksize.
	StackSize uint32
	// Priority is stored but never read by the scheduler (spec.md §9).
	Priority uint32
}

// Fiber is a cooperatively-scheduled task with its own stack: a dedicated
// goroutine, parked on resume between activations. It extends the common
// schob header with the state needed to hand control back and forth with
// whichever Worker is currently running it.
type Fiber struct {
	schob

	host  *Host
	entry FiberFunc
	data  any

	// resume and yielded are the two sides of this fiber's context-switch
	// handshake: Worker.resumeFiber sends on resume to unpark the fiber's
	// goroutine and blocks on yielded for its disposition. Both are
	// unbuffered so each side blocks until the other is ready, the same
	// rendezvous switch_ctx gives the original via a register-save/restore
	// pair.
	resume  chan struct{}
	yielded chan yieldReason

	// runningLock is held by a Worker from the instant it commits to
	// resuming this fiber (sends on resume) until it has read this fiber's
	// disposition back (receives from yielded). It is the sole
	// cross-worker synchronization for fiber state (spec.md §5 "The
	// running-lock"): it is what makes the gap between a fiber placing
	// itself on some wait queue and that fiber's yield actually completing
	// safe, even if a sender concurrently re-enqueues this fiber and a
	// second Worker tries to resume it before the first Worker's resumeFiber
	// call has returned — the second Worker simply spins on this lock until
	// the first one releases it.
	runningLock spinlock

	// recvSlot carries a message a sender delivered directly to this fiber
	// while it was parked on a port's waiter queue (see Port.Recv).
	recvSlot *Message

	stackSize uint32
}

func (f *Fiber) Priority() uint32 { return f.priority }

func resetFiber(f *Fiber) { *f = Fiber{} }

func clampStackSize(h *Host, size uint32) (uint32, error) {
	if size == 0 {
		return h.stackDefault, nil
	}
	if size < h.stackMin || size > h.stackMax {
		return 0, ErrInvalidParam
	}
	return size, nil
}

// CreateFiber creates a new fiber on Host h. This is the "outer form" of
// fiber_create_ext — it may be called from any goroutine, not only from
// within a fiber or DPC.
func (h *Host) CreateFiber(entry FiberFunc, data any, attrs *FiberAttrs) (*Fiber, error) {
	if entry == nil {
		return nil, ErrInvalidParam
	}

	var stackSize, priority uint32 = 0, PrioDefault
	if attrs != nil {
		stackSize = attrs.StackSize
		if attrs.Priority != 0 {
			priority = attrs.Priority
		}
	}
	size, err := clampStackSize(h, stackSize)
	if err != nil {
		return nil, err
	}

	f := h.fiberPool.alloc()
	f.kind = kindFiber
	f.priority = priority
	f.host = h
	f.entry = entry
	f.data = data
	f.stackSize = size
	f.resume = make(chan struct{})
	f.yielded = make(chan yieldReason)

	go f.runLoop()

	h.enqueue(f, true)
	return f, nil
}

// FiberCreate is the "inner form": it must be called from within a fiber or
// DPC, and creates the new fiber on that context's Host.
func FiberCreate(entry FiberFunc, data any, attrs *FiberAttrs) (*Fiber, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreateFiber(entry, data, attrs)
}

// runLoop is this fiber's dedicated goroutine. It parks on resume until the
// owning Worker first switches into it, runs the entry point to completion,
// and reports ZOMBIE — whether entry returned normally or called Exit,
// which unwinds here via runtime.Goexit so the deferred send below always
// runs exactly once.
func (f *Fiber) runLoop() {
	<-f.resume
	setCurrent(&current{fiber: f})
	defer func() {
		clearCurrent()
		f.yielded <- yieldZombie
	}()
	f.entry(f, f.data)
}

// yieldExt hands control back to this fiber's Worker with the given
// disposition, and blocks until that Worker (or a later one) resumes it.
func (f *Fiber) yieldExt(r yieldReason) {
	f.yielded <- r
	<-f.resume
}

// Yield cooperatively yields to the scheduler. Control may return at any
// later time, on any Worker.
func (f *Fiber) Yield() {
	f.yieldExt(yieldReady)
}

// Exit terminates the fiber. It never returns to the caller: like the
// original's nk_thd_exit, control does not come back, it is unwound via
// runtime.Goexit so any deferred cleanup in the fiber's call stack still
// runs before the fiber's goroutine ends.
func (f *Fiber) Exit() {
	runtime.Goexit()
}

// waitReady parks self on some wait queue (the caller must already have
// pushed it there and released that queue's spinlock) and yields WAITING.
// This is the one helper every blocking primitive in this package (Port,
// Mutex, Cond, Barrier) shares; see spec.md §4.3 "Race-free receive" for the
// argument that the gap between releasing the wait-queue spinlock and this
// call is safe.
func (f *Fiber) waitReady() {
	f.yieldExt(yieldWaiting)
}
