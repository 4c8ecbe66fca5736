package nk

import "github.com/rs/zerolog"

// defaultLogger is silent, matching the original's total silence outside of
// an assert() abort. Callers opt into diagnostics with WithLogger.
var defaultLogger = zerolog.Nop()
