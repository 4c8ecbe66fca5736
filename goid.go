package nk

import (
	"runtime"
	"strconv"
	"sync"
)

// goroutineID returns a stable identifier for the calling goroutine. It
// parses the "goroutine NNN [running]:" header that runtime.Stack always
// writes first, which is the only portable way to recover this value without
// a cgo or unsafe dependency on scheduler internals.
//
// This is this module's analog of the original's pthread TLS key
// (nk_hostthd_self, set up via pthread_key_create/pthread_setspecific in
// src/thd.c): the original pins one nk_hostthd pointer per OS thread, we pin
// one *current execution context* per goroutine.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// b starts with "goroutine 123 [running]:\n"
	const prefix = "goroutine "
	if len(b) <= len(prefix) {
		return -1
	}
	b = b[len(prefix):]
	i := 0
	for i < len(b) && b[i] != ' ' {
		i++
	}
	id, err := strconv.ParseInt(string(b[:i]), 10, 64)
	if err != nil {
		return -1
	}
	return id
}

// current holds the execution context of one goroutine: either the Worker
// whose loop is directly executing a DPC on its own stack, or the Fiber
// whose dedicated goroutine is currently unparked.
type current struct {
	worker *Worker
	fiber  *Fiber
	dpc    *DPC
}

var (
	currentMu sync.RWMutex
	currentM  = map[int64]*current{}
)

func setCurrent(c *current) {
	id := goroutineID()
	currentMu.Lock()
	currentM[id] = c
	currentMu.Unlock()
}

func clearCurrent() {
	id := goroutineID()
	currentMu.Lock()
	delete(currentM, id)
	currentMu.Unlock()
}

func getCurrent() *current {
	id := goroutineID()
	currentMu.RLock()
	c := currentM[id]
	currentMu.RUnlock()
	return c
}

// CurrentWorker returns the Worker running on the calling goroutine, or nil
// if the calling goroutine is not a worker loop (e.g. it is a fiber
// goroutine, or unrelated application code).
func CurrentWorker() *Worker {
	c := getCurrent()
	if c == nil {
		return nil
	}
	return c.worker
}

// FiberSelf returns the Fiber executing on the calling goroutine, or nil if
// the calling goroutine is not a fiber (it is a DPC, a worker loop, or
// unrelated application code). Equivalent to nk_thd_self().
func FiberSelf() *Fiber {
	c := getCurrent()
	if c == nil {
		return nil
	}
	return c.fiber
}

// DPCSelf returns the DPC executing on the calling goroutine, or nil
// otherwise. Equivalent to nk_dpc_self().
func DPCSelf() *DPC {
	c := getCurrent()
	if c == nil {
		return nil
	}
	return c.dpc
}

// currentHost finds the Host that owns the calling fiber or DPC context.
// Used by the inner-form Create functions (FiberCreate, DPCCreate, ...),
// which per §6 "must be called from within a fiber or DPC."
func currentHost() *Host {
	c := getCurrent()
	if c == nil {
		return nil
	}
	if c.fiber != nil {
		return c.fiber.host
	}
	if c.dpc != nil {
		return c.dpc.host
	}
	if c.worker != nil {
		return c.worker.host
	}
	return nil
}
