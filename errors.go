package nk

import "errors"

// Error kinds surfaced by nk operations. nil corresponds to NK_OK in the
// original C status enum; every other kind is one of the sentinels below,
// tested with errors.Is.
var (
	// ErrInvalidState is returned when an operation is attempted against an
	// object in a state that forbids it (e.g. destroying a host that is
	// still running).
	ErrInvalidState = errors.New("nk: invalid state")

	// ErrInvalidParam is returned for clearly invalid inputs: a nil fiber
	// or DPC function, a fiber stack size outside the Host's bounds, a
	// non-positive barrier limit, or a non-positive worker count. The
	// Destroy methods do not check for a nil object and do not return it.
	ErrInvalidParam = errors.New("nk: invalid parameter")

	// ErrOutOfMemory reports an allocation failure. No operation in this
	// package returns it: objects are allocated through the Go runtime,
	// which does not report exhaustion as an error. Creation functions
	// fail with ErrInvalidParam for invalid inputs, and the inner forms
	// with ErrInvalidState when called outside a fiber or DPC.
	ErrOutOfMemory = errors.New("nk: out of memory")

	// ErrNotImplemented marks an operation that is intentionally absent
	// from this implementation (e.g. join/result propagation).
	ErrNotImplemented = errors.New("nk: not implemented")

	// ErrNoReceiver is returned by Port.Send to a DPC port that has no
	// handler installed.
	ErrNoReceiver = errors.New("nk: no receiver")
)
