// Package nk is a user-space kernel that multiplexes fibers and DPCs onto a
// fixed pool of worker goroutines inside a single process.
//
// A Host owns a global ready queue, a pool of Workers, and a set of object
// freelists. A Fiber is a cooperatively-scheduled task with its own stack (a
// dedicated goroutine, parked between activations); a DPC is a one-shot,
// non-suspending function invocation that runs to completion on a worker's
// own stack. Both are scheduled FIFO through the same ready queue and
// interact through Ports (message passing) and Mutex/Cond/Barrier
// (synchronization).
//
// Multiple Hosts may coexist in one process without interacting.
package nk
