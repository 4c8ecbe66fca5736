package nk

// Barrier holds a fixed number of fibers until all have arrived, then
// releases them together (spec.md §4.6). The invariant count <= limit holds
// at all times.
type Barrier struct {
	host    *Host
	lock    spinlock
	count   int
	limit   int
	waiters fiberQueue
}

func resetBarrier(b *Barrier) { *b = Barrier{} }

// CreateBarrier creates a new barrier with the given fixed capacity. limit
// must be positive.
func (h *Host) CreateBarrier(limit int) (*Barrier, error) {
	if limit <= 0 {
		return nil, ErrInvalidParam
	}
	b := h.barrierPool.alloc()
	b.host = h
	b.limit = limit
	return b, nil
}

// BarrierCreate is the inner form: it must be called from within a fiber or
// DPC.
func BarrierCreate(limit int) (*Barrier, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreateBarrier(limit)
}

// Destroy releases the barrier's resources. Behavior is undefined if any
// fiber is waiting on it; this implementation panics in that case.
func (b *Barrier) Destroy() {
	b.lock.Lock()
	bad := !b.waiters.empty()
	b.lock.Unlock()
	if bad {
		panic("nk: barrier destroyed while fibers are waiting")
	}
	b.host.barrierPool.release(b)
}

// Wait blocks the calling fiber until limit fibers total have called Wait,
// then releases all of them together and resets the barrier for its next
// use. Must be called from within a fiber.
func (b *Barrier) Wait() {
	self := FiberSelf()
	if self == nil {
		panic("nk: Barrier.Wait called outside a fiber")
	}

	b.lock.Lock()
	b.count++
	if b.count < b.limit {
		b.waiters.push(self)
		b.lock.Unlock()
		// Safe by the running_lock argument: see Fiber.waitReady.
		self.waitReady()
		return
	}

	b.count = 0
	var local fiberQueue
	for !b.waiters.empty() {
		local.push(b.waiters.pop())
	}
	b.lock.Unlock()

	for !local.empty() {
		b.host.enqueue(local.pop(), false)
	}
}
