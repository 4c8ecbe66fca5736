package nk

import (
	"context"

	"github.com/zoobzio/capitan"
)

// Worker is one of a Host's fixed pool of scheduling loops: the Go analog of
// the original's nk_hostthd, minus the OS thread it was pinned to. Workers
// never pick which schob they run next beyond popping the head of the ready
// queue — all scheduling policy lives in that single FIFO (spec.md §4.1).
type Worker struct {
	host *Host
	id   int

	// running is the schob this Worker is currently executing, or nil while
	// parked or between dispatches. It is not exposed outside the package,
	// and the scheduler itself never consults it.
	running Schob
}

func resetWorker(w *Worker) { *w = Worker{} }

// ID returns this Worker's index within its Host, stable for the Host's
// lifetime.
func (w *Worker) ID() int { return w.id }

// loop is the scheduling algorithm of spec.md §4.1: pop under the runq lock,
// dispatch outside it, repeat until told to stop.
func (w *Worker) loop() {
	h := w.host
	setCurrent(&current{worker: w})
	defer clearCurrent()

	for {
		h.runqMu.Lock()
		parked := false
		for !h.shutdown && h.schobCount > 0 && h.runq.empty() {
			h.logger.Debug().Int("worker_id", w.id).Msg("worker parked")
			capitan.Info(context.Background(), SignalWorkerParked, FieldWorkerID.Field(w.id))
			parked = true
			h.runqCond.Wait()
		}
		if h.shutdown || h.schobCount == 0 {
			h.runqMu.Unlock()
			return
		}
		if parked {
			capitan.Info(context.Background(), SignalWorkerWoke, FieldWorkerID.Field(w.id))
		}
		s := h.next()
		h.runqMu.Unlock()

		w.running = s
		w.dispatch(s)
		w.running = nil
	}
}

// dispatch runs one schob to its next suspension point and applies its
// disposition. DPCs run directly on this Worker's own stack and always
// disposition as ZOMBIE — they are one-shot, never suspend (spec.md §6).
// Fibers run on their own dedicated goroutine; dispatch hands control to it
// and reads back the three-valued yield reason.
func (w *Worker) dispatch(s Schob) {
	h := w.host

	switch v := s.(type) {
	case *DPC:
		setCurrent(&current{worker: w, dpc: v})
		v.worker = w
		v.fn(v, v.data)
		v.worker = nil
		setCurrent(&current{worker: w})
		w.finish(v)

	case *Fiber:
		reason := w.resumeFiber(v)
		switch reason {
		case yieldReady:
			h.enqueue(v, false)
		case yieldWaiting:
			// Ownership of v already passed to whatever wait queue it
			// pushed itself onto before yielding; nothing to do here.
		case yieldZombie:
			w.finish(v)
		}
	}
}

// resumeFiber performs the context-switch handshake described on Fiber.
// runningLock is held for the fiber's entire activation, which is what makes
// it safe for a second Worker to try to resume the very same fiber
// concurrently (it simply blocks here until this call returns).
func (w *Worker) resumeFiber(f *Fiber) yieldReason {
	f.runningLock.Lock()
	defer f.runningLock.Unlock()
	f.worker = w
	f.resume <- struct{}{}
	reason := <-f.yielded
	f.worker = nil
	return reason
}

// finish tears down a schob that has reached ZOMBIE (or, for a DPC, simply
// completed) and, if that was the last live schob, wakes every other Worker
// so they can observe the liveness condition and return.
func (w *Worker) finish(s Schob) {
	h := w.host
	h.destroySchob(s)

	h.runqMu.Lock()
	h.schobCount--
	count := h.schobCount
	if count == 0 {
		h.runqCond.Broadcast()
	}
	h.runqMu.Unlock()

	capitan.Info(context.Background(), SignalSchobDestroyed, FieldSchobCount.Field(count))
}
