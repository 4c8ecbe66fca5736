package nk

// Priority bounds, carried from the original's nk_schob.prio field. FIFO
// scheduling is used throughout; the scheduler never reads this field. It
// exists only so a future revision can add priority without breaking the
// API — see spec.md §9 Open Questions.
const (
	PrioMin     uint32 = 0
	PrioDefault uint32 = 0x80000000
	PrioMax     uint32 = 0xffffffff
)

type schobKind int

const (
	kindFiber schobKind = iota
	kindDPC
)

// schob is the common header embedded in Fiber and DPC: the "schedulable
// object" of spec.md §3. In the original this is a literal struct inherited
// by nk_thd/nk_dpc via field-flattening; in Go the equivalent is an embedded
// struct plus the Schob interface below, which lets the scheduler operate on
// either concrete type through one intrusive link field without resorting to
// pointer-offset macros (the original's QUEUE_OBJ_FROM_ENTRY).
type schob struct {
	kind     schobKind
	priority uint32

	// worker is the Worker currently executing this schob, or nil.
	worker *Worker

	// next is this schob's sole intrusive queue link. A schob is on at most
	// one queue at any instant — the global ready queue, a port's or sync
	// object's wait list, or none — and this field is that queue membership.
	next Schob
}

// Schob is the minimal interface the scheduler needs to enqueue, dequeue,
// and dispatch a schedulable entity without caring whether it is a Fiber or
// a DPC.
type Schob interface {
	header() *schob
	Priority() uint32
}

func (s *schob) header() *schob { return s }

// schobQueue is an intrusive FIFO of Schob, built on each schob's own next
// link — no allocation is needed to move a schob between queues, matching
// the original's queue.h contract.
type schobQueue struct {
	head, tail Schob
}

func (q *schobQueue) empty() bool { return q.head == nil }

func (q *schobQueue) push(s Schob) {
	h := s.header()
	h.next = nil
	if q.tail == nil {
		q.head = s
		q.tail = s
		return
	}
	q.tail.header().next = s
	q.tail = s
}

func (q *schobQueue) pop() Schob {
	if q.head == nil {
		return nil
	}
	s := q.head
	q.head = s.header().next
	if q.head == nil {
		q.tail = nil
	}
	s.header().next = nil
	return s
}
