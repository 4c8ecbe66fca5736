package nk

// Mutex is a fiber-level lock: contended Lock calls suspend the calling
// fiber instead of spinning, and hand-off to a woken waiter is not explicit
// (spec.md §4.4) — a waiter that wakes must recheck locked itself, so a
// racing newcomer may win the bit first. This is correct because the woken
// waiter simply loops.
type Mutex struct {
	host    *Host
	lock    spinlock
	locked  bool
	waiters fiberQueue
}

func resetMutex(m *Mutex) { *m = Mutex{} }

// CreateMutex creates a new, unlocked mutex on Host h.
func (h *Host) CreateMutex() (*Mutex, error) {
	m := h.mutexPool.alloc()
	m.host = h
	return m, nil
}

// MutexCreate is the inner form: it must be called from within a fiber or
// DPC.
func MutexCreate() (*Mutex, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreateMutex()
}

// Destroy releases the mutex's resources. Behavior is undefined if it is
// currently locked or has waiters; this implementation panics in that case.
func (m *Mutex) Destroy() {
	m.lock.Lock()
	bad := m.locked || !m.waiters.empty()
	m.lock.Unlock()
	if bad {
		panic("nk: mutex destroyed while locked or while fibers are waiting")
	}
	m.host.mutexPool.release(m)
}

// Lock acquires the mutex, suspending the calling fiber if it is already
// held. Must be called from within a fiber.
func (m *Mutex) Lock() {
	self := FiberSelf()
	if self == nil {
		panic("nk: Mutex.Lock called outside a fiber")
	}

	for {
		m.lock.Lock()
		if !m.locked {
			m.locked = true
			m.lock.Unlock()
			return
		}
		m.waiters.push(self)
		m.lock.Unlock()

		// Safe by the same running_lock argument as Port.Recv: see
		// Fiber.waitReady.
		self.waitReady()
		// On resume we do not assume we now hold the mutex — handoff is
		// not explicit, so loop and recheck.
	}
}

// Unlock releases the mutex and wakes one waiter, if any. Unlocking an
// unlocked mutex is a protocol violation and panics.
func (m *Mutex) Unlock() {
	m.lock.Lock()
	if !m.locked {
		m.lock.Unlock()
		panic("nk: unlock of an unlocked mutex")
	}
	m.locked = false
	woken := m.waiters.pop()
	m.lock.Unlock()

	if woken != nil {
		m.host.enqueue(woken, false)
	}
}
