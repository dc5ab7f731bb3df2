package storage

import (
	"errors"
	"time"
)

var ErrDisabled = errors.New("storage disabled")

// Config configures storage.
//
// Driver values:
//   - "memory": in-process maps, lost on exit (default)
//   - "sqlite": SQLite database file
type Config struct {
	Driver      string
	Path        string
	BusyTimeout time.Duration // sqlite only; 0 means default
}

// DecisionEntry records one pitch-approval outcome.
// Keep it compact and schema-stable.
type DecisionEntry struct {
	At        time.Time
	PitchID   string
	Submitter string
	Score     int
	Approved  bool
	Fallback  bool
	Reason    string
}
