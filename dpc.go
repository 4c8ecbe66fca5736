package nk

// DPCFunc is a DPC's entry point. Unlike a FiberFunc it runs to completion
// on whichever Worker dequeues it and may not block or yield (spec.md §6).
type DPCFunc func(self *DPC, data any)

// DPCAttrs configures DPC creation.
type DPCAttrs struct {
	// Priority is stored but never read by the scheduler (spec.md §9).
	Priority uint32
}

// DPC is a one-shot, non-suspending unit of work: the Go analog of the
// original's nk_dpc. It shares the schob header with Fiber but has no stack
// of its own — it simply runs, once, on the Worker goroutine that dequeues
// it.
type DPC struct {
	schob

	host *Host
	fn   DPCFunc
	data any
}

func (d *DPC) Priority() uint32 { return d.priority }

func resetDPC(d *DPC) { *d = DPC{} }

// CreateDPC creates a new DPC on Host h. This is the "outer form" — it may
// be called from any goroutine.
func (h *Host) CreateDPC(fn DPCFunc, data any, attrs *DPCAttrs) (*DPC, error) {
	if fn == nil {
		return nil, ErrInvalidParam
	}

	priority := PrioDefault
	if attrs != nil && attrs.Priority != 0 {
		priority = attrs.Priority
	}

	d := h.dpcPool.alloc()
	d.kind = kindDPC
	d.priority = priority
	d.host = h
	d.fn = fn
	d.data = data

	h.enqueue(d, true)
	return d, nil
}

// DPCCreate is the "inner form": it must be called from within a fiber or
// DPC, and creates the new DPC on that context's Host. Equivalent to
// nk_dpc_create.
func DPCCreate(fn DPCFunc, data any, attrs *DPCAttrs) (*DPC, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreateDPC(fn, data, attrs)
}
