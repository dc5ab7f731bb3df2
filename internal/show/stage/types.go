// Package stage sequences speaker cues within a segment's time budget.
//
// Exactly two speakers alternate, A first. Progression is driven by
// completion signals, with a recovery window that forces the next turn when
// a speaker never reports back, so a segment cannot stall forever.
package stage

import "time"

// Cue is the per-turn instruction handed to one speaking agent.
type Cue struct {
	Speaker      string
	Topic        string
	Instructions string
	Stance       string
	Pacing       string

	// ContinuityHint references the previous speaker's last utterance.
	// Only cues to speaker B carry one.
	ContinuityHint string

	Turn int
}

// End is published when a segment finishes its budget.
type End struct {
	Topic   string
	Turns   int
	Elapsed time.Duration
	Budget  time.Duration
}

// Status is a point-in-time view of the scheduler.
type Status struct {
	Active  bool
	Topic   string
	Current string
	Turns   int
	Elapsed time.Duration
}
