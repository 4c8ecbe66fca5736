package nk

// Message is a unit of data passed through a Port. Data1 and Data2 carry
// whatever the sender and receiver agree on; this package never interprets
// them (spec.md §7).
type Message struct {
	host *Host
	src  *Port
	dest *Port
	next *Message

	// dpcData is the port's configured DPC-handler argument (set via
	// Port.SetDPC), not the message payload — it lets one DPC handler
	// function disambiguate which port configuration produced a given
	// message, independent of Data1/Data2.
	dpcData any

	Data1, Data2 any
}

func resetMessage(m *Message) { *m = Message{} }

// Src returns the port this message was sent from, or nil if the sender
// passed a nil from-port to Send.
func (m *Message) Src() *Port { return m.src }

// Dest returns the port this message was sent to.
func (m *Message) Dest() *Port { return m.dest }

// DPCData returns the handler argument configured on the destination port
// via SetDPC, for messages delivered to a DPC port.
func (m *Message) DPCData() any { return m.dpcData }

// Destroy releases the message back to its Host's pool. The receiver of a
// Recv'd message owns it and must call Destroy when done.
func (m *Message) Destroy() {
	m.host.msgPool.release(m)
}

// messageQueue is an intrusive FIFO of *Message, the message-side analog of
// schobQueue.
type messageQueue struct {
	head, tail *Message
}

func (q *messageQueue) empty() bool { return q.head == nil }

func (q *messageQueue) push(m *Message) {
	m.next = nil
	if q.tail == nil {
		q.head = m
		q.tail = m
		return
	}
	q.tail.next = m
	q.tail = m
}

func (q *messageQueue) pop() *Message {
	if q.head == nil {
		return nil
	}
	m := q.head
	q.head = m.next
	if q.head == nil {
		q.tail = nil
	}
	m.next = nil
	return m
}
