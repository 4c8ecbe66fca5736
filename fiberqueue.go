package nk

// fiberQueue is an intrusive FIFO of *Fiber, used by every wait list in this
// package (port receivers, mutex waiters, condvar waiters, barrier waiters).
// It reuses the same schob.next link a Fiber uses on the ready queue — the
// invariant that a schob is on at most one queue at a time means this is
// always safe: a fiber parked here is, by construction, not also on the
// ready queue.
type fiberQueue struct {
	q schobQueue
}

func (fq *fiberQueue) empty() bool { return fq.q.empty() }

func (fq *fiberQueue) push(f *Fiber) { fq.q.push(f) }

func (fq *fiberQueue) pop() *Fiber {
	s := fq.q.pop()
	if s == nil {
		return nil
	}
	return s.(*Fiber)
}
