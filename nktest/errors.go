package nktest

import "errors"

// ErrDeadlineExceeded is returned by Run when a Host does not finish within
// its configured timeout.
var ErrDeadlineExceeded = errors.New("nktest: deadline exceeded")
