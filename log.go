package grammex

import "github.com/rs/zerolog"

// noopLogger is used whenever a caller doesn't wire a logger in, so
// the zerolog dependency costs nothing when unused (spec.md §4.I).
var noopLogger = zerolog.Nop()
