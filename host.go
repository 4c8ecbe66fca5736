package nk

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/zoobzio/capitan"
)

// Host is one runtime instance: a global ready queue, a pool of Workers, and
// the object freelists backing every other kernel type. Multiple Hosts may
// coexist in one process without interacting (spec.md §2).
type Host struct {
	// runqMu and runqCond guard runq, schobCount, and shutdown together,
	// exactly as the original's single runq_mutex/runq_cond pair guards
	// nk_host.runq/schob_count/shutdown.
	runqMu     sync.Mutex
	runqCond   *sync.Cond
	runq       schobQueue
	schobCount int
	shutdown   bool

	workers     []*Worker
	workerCount int

	logger zerolog.Logger

	stackMin     uint32
	stackDefault uint32
	stackMax     uint32

	fiberPool   *freelist[Fiber]
	dpcPool     *freelist[DPC]
	workerPool  *freelist[Worker]
	msgPool     *freelist[Message]
	portPool    *freelist[Port]
	mutexPool   *freelist[Mutex]
	condPool    *freelist[Cond]
	barrierPool *freelist[Barrier]
}

// HostOption configures a Host at construction time, following the
// functional-options idiom this pack's logiface.Option[E] and pipz's
// WithClock/WithTimeout both use.
type HostOption func(*hostConfig)

type hostConfig struct {
	logger           zerolog.Logger
	freelistMaxCount int
	stackMin         uint32
	stackDefault     uint32
	stackMax         uint32
}

// Stack size bounds, carried from the original's NK_THD_STACKSIZE_MIN/
// DEFAULT/MAX (include/thd.h). These validate FiberAttrs.StackSize; per
// SPEC_FULL.md §0 they back no real allocation, since a Fiber's stack is an
// ordinary Go goroutine stack managed by the runtime.
const (
	StackSizeMin     uint32 = 4 * 1024
	StackSizeDefault uint32 = 256 * 1024
	StackSizeMax     uint32 = 16 * 1024 * 1024
)

// WithLogger attaches a zerolog.Logger for internal diagnostics. Without
// this option the Host is silent.
func WithLogger(l zerolog.Logger) HostOption {
	return func(c *hostConfig) { c.logger = l }
}

// WithFreelistMaxCount overrides the per-category freelist bound (default
// 10,000, matching the reference implementation).
func WithFreelistMaxCount(n int) HostOption {
	return func(c *hostConfig) { c.freelistMaxCount = n }
}

// WithStackSizeBounds overrides the min/default/max fiber stack size used to
// validate FiberAttrs.StackSize.
func WithStackSizeBounds(min, def, max uint32) HostOption {
	return func(c *hostConfig) {
		c.stackMin = min
		c.stackDefault = def
		c.stackMax = max
	}
}

// NewHost creates a new runtime instance.
func NewHost(opts ...HostOption) (*Host, error) {
	cfg := hostConfig{
		logger:           defaultLogger,
		freelistMaxCount: defaultFreelistMaxCount,
		stackMin:         StackSizeMin,
		stackDefault:     StackSizeDefault,
		stackMax:         StackSizeMax,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	h := &Host{
		logger:       cfg.logger,
		stackMin:     cfg.stackMin,
		stackDefault: cfg.stackDefault,
		stackMax:     cfg.stackMax,
	}
	h.runqCond = sync.NewCond(&h.runqMu)

	h.fiberPool = newFreelist(cfg.freelistMaxCount, func() *Fiber { return &Fiber{} }, resetFiber)
	h.dpcPool = newFreelist(cfg.freelistMaxCount, func() *DPC { return &DPC{} }, resetDPC)
	h.workerPool = newFreelist(cfg.freelistMaxCount, func() *Worker { return &Worker{} }, resetWorker)
	h.msgPool = newFreelist(cfg.freelistMaxCount, func() *Message { return &Message{} }, resetMessage)
	h.portPool = newFreelist(cfg.freelistMaxCount, func() *Port { return &Port{} }, resetPort)
	h.mutexPool = newFreelist(cfg.freelistMaxCount, func() *Mutex { return &Mutex{} }, resetMutex)
	h.condPool = newFreelist(cfg.freelistMaxCount, func() *Cond { return &Cond{} }, resetCond)
	h.barrierPool = newFreelist(cfg.freelistMaxCount, func() *Barrier { return &Barrier{} }, resetBarrier)

	return h, nil
}

// enqueue pushes schob onto the ready queue and, if newSchob, counts it as a
// new live schob. It assumes no lock is held by the caller (it acquires
// runqMu itself), matching nk_schob_enqueue in src/thd.c.
func (h *Host) enqueue(s Schob, newSchob bool) {
	h.runqMu.Lock()
	h.runq.push(s)
	if newSchob {
		h.schobCount++
	}
	h.runqCond.Signal()
	h.runqMu.Unlock()
}

// next pops one schob off the ready queue by FIFO. The caller must already
// hold runqMu.
func (h *Host) next() Schob {
	return h.runq.pop()
}

// Run spawns the given number of Workers and blocks until they all exit,
// which happens once schobCount reaches zero or Shutdown has been called
// (spec.md §4.1 "Liveness condition").
func (h *Host) Run(workers int) error {
	if workers <= 0 {
		return ErrInvalidParam
	}

	var wg sync.WaitGroup
	h.runqMu.Lock()
	for i := 0; i < workers; i++ {
		w := h.workerPool.alloc()
		w.host = h
		w.id = i
		h.workers = append(h.workers, w)
		h.workerCount++
		wg.Add(1)
		go func(w *Worker) {
			defer wg.Done()
			w.loop()
		}(w)
	}
	h.runqMu.Unlock()

	wg.Wait()

	// Defensively destroy any schobs still sitting on the ready queue, as
	// nk_host_run does after joining every hostthd.
	h.runqMu.Lock()
	leftover := make([]Schob, 0)
	for {
		s := h.runq.pop()
		if s == nil {
			break
		}
		leftover = append(leftover, s)
	}
	h.schobCount -= len(leftover)
	h.runqMu.Unlock()
	for _, s := range leftover {
		h.destroySchob(s)
	}

	return nil
}

// Shutdown sets the sticky shutdown flag and wakes every parked Worker. It
// never interrupts a schob that is actively running; workers observe the
// flag only at their next scheduling decision.
func (h *Host) Shutdown() {
	h.runqMu.Lock()
	h.shutdown = true
	h.runqCond.Broadcast()
	h.runqMu.Unlock()
	capitan.Info(context.Background(), SignalHostShutdown)
}

// Destroy checks that the Host has no live schobs left, returning
// ErrInvalidState if it has. It must be called only after Run has returned.
// It frees nothing itself; the Host's pools are left to the garbage
// collector.
func (h *Host) Destroy() error {
	h.runqMu.Lock()
	count := h.schobCount
	h.runqMu.Unlock()
	if count != 0 {
		return ErrInvalidState
	}
	return nil
}

// destroySchob frees a fiber or DPC through its owning pool, mirroring
// nk_thd_destroy/nk_dpc_destroy.
func (h *Host) destroySchob(s Schob) {
	switch v := s.(type) {
	case *Fiber:
		h.fiberPool.release(v)
	case *DPC:
		h.dpcPool.release(v)
	}
}
