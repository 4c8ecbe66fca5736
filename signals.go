package nk

import "github.com/zoobzio/capitan"

// Signal constants for host lifecycle events. A caller can subscribe to
// these through capitan independently of the logger set via WithLogger;
// they exist for tests and operators that want to assert on or observe
// scheduling events without scraping log lines.
//
// This instrumentation pattern — a capitan.Signal per lifecycle event, typed
// capitan keys carrying the interesting fields — follows
// zoobzio/pipz's connector signals (SignalWorkerPoolSaturated,
// FieldWorkerCount, ...).
const (
	// SignalWorkerParked fires when a worker finds the ready queue empty and
	// is about to wait on the runq condition variable.
	SignalWorkerParked capitan.Signal = "nk.worker.parked"

	// SignalWorkerWoke fires when a parked worker is signaled and resumes
	// its scheduling loop.
	SignalWorkerWoke capitan.Signal = "nk.worker.woke"

	// SignalSchobDestroyed fires when a fiber or DPC is torn down after
	// running to completion or exiting.
	SignalSchobDestroyed capitan.Signal = "nk.schob.destroyed"

	// SignalPortNoReceiver fires when Port.Send to a DPC port finds no
	// handler installed.
	SignalPortNoReceiver capitan.Signal = "nk.port.no_receiver"

	// SignalHostShutdown fires when Host.Shutdown sets the sticky shutdown
	// flag.
	SignalHostShutdown capitan.Signal = "nk.host.shutdown"
)

// Field keys used by the signals above.
var (
	FieldWorkerID   = capitan.NewIntKey("worker_id")
	FieldSchobKind  = capitan.NewStringKey("schob_kind")
	FieldSchobCount = capitan.NewIntKey("schob_count")
	FieldPortType   = capitan.NewStringKey("port_type")
)
