package nk

// Cond is a fiber-level condition variable, used together with a Mutex
// exactly like pthread_cond_t (spec.md §4.5).
type Cond struct {
	host    *Host
	lock    spinlock
	waiters fiberQueue
}

func resetCond(c *Cond) { *c = Cond{} }

// CreateCond creates a new condition variable on Host h.
func (h *Host) CreateCond() (*Cond, error) {
	c := h.condPool.alloc()
	c.host = h
	return c, nil
}

// CondCreate is the inner form: it must be called from within a fiber or
// DPC.
func CondCreate() (*Cond, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreateCond()
}

// Destroy releases the condition variable's resources. Behavior is
// undefined if any fiber is waiting on it; this implementation panics in
// that case.
func (c *Cond) Destroy() {
	c.lock.Lock()
	bad := !c.waiters.empty()
	c.lock.Unlock()
	if bad {
		panic("nk: condvar destroyed while fibers are waiting")
	}
	c.host.condPool.release(c)
}

// Wait atomically unlocks m, suspends the calling fiber until signaled, and
// re-locks m before returning. Must be called from within a fiber, with m
// held.
func (c *Cond) Wait(m *Mutex) {
	self := FiberSelf()
	if self == nil {
		panic("nk: Cond.Wait called outside a fiber")
	}

	c.lock.Lock()
	c.waiters.push(self)
	c.lock.Unlock()

	m.Unlock()

	// Safe by the running_lock argument: see Fiber.waitReady.
	self.waitReady()

	m.Lock()
}

// Signal wakes one fiber waiting on c, if any.
func (c *Cond) Signal() {
	c.lock.Lock()
	woken := c.waiters.pop()
	c.lock.Unlock()

	if woken != nil {
		c.host.enqueue(woken, false)
	}
}

// Broadcast wakes every fiber waiting on c.
func (c *Cond) Broadcast() {
	c.lock.Lock()
	var local fiberQueue
	for !c.waiters.empty() {
		local.push(c.waiters.pop())
	}
	c.lock.Unlock()

	for !local.empty() {
		c.host.enqueue(local.pop(), false)
	}
}
