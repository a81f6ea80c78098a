package evgraph

import "errors"

// Structural errors (spec.md section 7): fatal for the append that raised
// them, never retried.
var (
	ErrCycleDetected = errors.New("CycleDetected")
	ErrDuplicateID   = errors.New("DuplicateId")
	ErrMalformedEvent = errors.New("MalformedEvent")
	ErrNotFound      = errors.New("NotFound")
)

// Resolution errors (spec.md section 7): surfaced to the caller of Recalc.
var (
	ErrUnknownIndividual = errors.New("UnknownIndividual")
	ErrModelNotFound     = errors.New("ModelNotFound")
)
