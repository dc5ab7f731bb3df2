package storage

// Package storage backs the pluggable reputation input and the pitch-decision
// audit trail.
//
// The show itself never depends on persistence: the memory driver is the
// default and is enough for a full run. The sqlite driver is an operator
// opt-in for keeping reputation and decision history around.
