// Package script turns a segment brief into spoken material for the two
// hosts.
//
// Each brief runs through a small per-request state machine: a fast path
// answers from a template table with no collaborator call, the slow path
// builds a structured prompt and races the generation collaborator against a
// timeout, retrying once before degrading to a deterministic templated
// script. The director never returns an empty script.
package script

// State tracks one brief through the director.
type State int

const (
	StateReceived State = iota
	StateFastPath
	StateSlowPath
	StateDispatched
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateReceived:
		return "received"
	case StateFastPath:
		return "fast-path"
	case StateSlowPath:
		return "slow-path"
	case StateDispatched:
		return "dispatched"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Speaker describes one of the two hosts as the director needs to know them.
type Speaker struct {
	ID      string
	Name    string
	Persona string
	// StanceBias nudges which side of a topic the host tends to take.
	StanceBias string
}

// Script is the material for one segment: pacing, each host's stance and
// each host's opening lines.
type Script struct {
	Topic  string
	Angle  string
	Pacing string

	StanceA string
	StanceB string
	LinesA  string
	LinesB  string

	// FastPath marks a script answered from the template table.
	FastPath bool
	// Fallback marks the deterministic script used after generation failed.
	Fallback bool
}

// Commentary is the executive-insight request signaled after every dispatch.
type Commentary struct {
	Context    string
	ShowStatus string
	BackupLine string
}
