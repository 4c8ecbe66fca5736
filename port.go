package nk

import (
	"context"

	"github.com/zoobzio/capitan"
)

// PortType selects what happens when a message arrives at a Port.
type PortType int

const (
	// PortFiber queues messages and blocks fibers that call Recv until one
	// arrives.
	PortFiber PortType = iota
	// PortDPC spawns a DPC on every incoming message instead of queueing
	// it.
	PortDPC
)

// Port is a message endpoint: either a queue fibers block on (PortFiber) or
// a DPC factory (PortDPC). The Go analog of the original's nk_port.
type Port struct {
	host *Host
	lock spinlock

	msgs    messageQueue
	waiters fiberQueue

	portType PortType
	dpcFunc  DPCFunc
	dpcData  any
}

func resetPort(p *Port) { *p = Port{} }

// CreatePort creates a new port on Host h.
func (h *Host) CreatePort(portType PortType) (*Port, error) {
	p := h.portPool.alloc()
	p.host = h
	p.portType = portType
	return p, nil
}

// PortCreate is the inner form: it must be called from within a fiber or
// DPC.
func PortCreate(portType PortType) (*Port, error) {
	h := currentHost()
	if h == nil {
		return nil, ErrInvalidState
	}
	return h.CreatePort(portType)
}

// Destroy releases the port's resources. Behavior is undefined — and this
// implementation panics — if any messages are queued or any fiber is
// blocked in Recv; the caller must synchronize with every sender and
// receiver first, exactly as the original's nk_port_destroy documents.
func (p *Port) Destroy() {
	p.lock.Lock()
	empty := p.msgs.empty() && p.waiters.empty()
	p.lock.Unlock()
	if !empty {
		panic("nk: port destroyed while messages or receivers are still pending")
	}
	p.host.portPool.release(p)
}

// SetDPC configures the function and argument used to handle messages
// arriving at a PortDPC port. It is only valid for DPC ports.
func (p *Port) SetDPC(fn DPCFunc, data any) {
	if p.portType != PortDPC {
		panic("nk: SetDPC called on a non-DPC port")
	}
	p.dpcFunc = fn
	p.dpcData = data
}

// Send delivers a message to the port. It never blocks, but must be called
// from within a fiber or DPC running on the destination port's Host.
//
// For a PortDPC port with no handler installed, Send returns ErrNoReceiver.
// For a PortFiber port, Send either hands the message directly to a fiber
// already parked in Recv, or queues it for the next Recv call.
func (p *Port) Send(from *Port, data1, data2 any) error {
	h := currentHost()
	if h == nil {
		panic("nk: Send called outside a fiber or DPC")
	}

	m := p.host.msgPool.alloc()
	m.host = p.host
	m.src = from
	m.dest = p
	m.Data1 = data1
	m.Data2 = data2

	switch p.portType {
	case PortDPC:
		if p.dpcFunc == nil {
			m.Destroy()
			capitan.Info(context.Background(), SignalPortNoReceiver, FieldPortType.Field("dpc"))
			return ErrNoReceiver
		}
		m.dpcData = p.dpcData
		_, err := h.CreateDPC(p.dpcFunc, m, nil)
		return err

	case PortFiber:
		p.lock.Lock()
		if !p.waiters.empty() {
			f := p.waiters.pop()
			p.lock.Unlock()
			f.recvSlot = m
			h.enqueue(f, false)
			return nil
		}
		p.msgs.push(m)
		p.lock.Unlock()
		return nil

	default:
		panic("nk: invalid port type")
	}
}

// Recv blocks the calling fiber until a message arrives at the port,
// returning it. The caller owns the returned Message and must call its
// Destroy method when done. Recv must be called from within a fiber; calling
// it on a PortDPC port is a protocol violation and panics.
func (p *Port) Recv() (*Message, error) {
	if p.portType != PortFiber {
		panic("nk: Recv called on a DPC port")
	}
	self := FiberSelf()
	if self == nil {
		panic("nk: Recv called outside a fiber")
	}

	p.lock.Lock()
	if !p.msgs.empty() {
		m := p.msgs.pop()
		p.lock.Unlock()
		return m, nil
	}
	p.waiters.push(self)
	p.lock.Unlock()

	// The gap between releasing p.lock and the yield below is safe: we are
	// about to yield WAITING, so the scheduler will not put self back on
	// the ready queue on our behalf. If another fiber concurrently sends
	// and re-enqueues self first, that's fine too — we'll simply observe
	// recvSlot already set when next scheduled. The running-lock held by
	// whichever Worker is driving this fiber (see Fiber.runningLock)
	// prevents a second Worker from resuming self before we actually reach
	// this yield.
	self.waitReady()

	m := self.recvSlot
	self.recvSlot = nil
	return m, nil
}
