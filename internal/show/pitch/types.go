// Package pitch takes in audience-submitted content ideas and scores them
// for approval.
//
// Intake goes through a bounded backlog (oldest pending idea is evicted on
// overflow, never the newest) with per-submitter rate limiting. Scoring is a
// weighted blend of five sub-scores; any failure during scoring degrades to
// an automatic low-priority approval so a submitter is never left without a
// decision.
package pitch

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a submission. It transitions exactly
// once, from StatusPending to one of the terminal states.
type Status int

const (
	StatusPending Status = iota
	StatusApproved
	StatusRejected
	StatusAutoApproved
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusApproved:
		return "approved"
	case StatusRejected:
		return "rejected"
	case StatusAutoApproved:
		return "auto-approved"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status is a final decision.
func (s Status) Terminal() bool { return s != StatusPending }

// Submission is one audience idea awaiting a decision.
type Submission struct {
	ID        string
	Submitter string
	Text      string
	At        time.Time
	Status    Status
}

func newSubmission(submitter, text string, at time.Time) *Submission {
	return &Submission{
		ID:        uuid.NewString(),
		Submitter: submitter,
		Text:      text,
		At:        at,
		Status:    StatusPending,
	}
}

// Factors is the per-factor breakdown behind a decision. Each sub-score is
// in [0,100].
type Factors struct {
	Reputation  int
	Creativity  int
	Feasibility int
	Market      int
	Engagement  int
}

// Weights blends the five factors into the final score. Weights must be
// non-negative and sum to 1.0.
type Weights struct {
	Reputation  float64
	Creativity  float64
	Feasibility float64
	Market      float64
	Engagement  float64
}

func DefaultWeights() Weights {
	return Weights{
		Reputation:  0.20,
		Creativity:  0.25,
		Feasibility: 0.25,
		Market:      0.20,
		Engagement:  0.10,
	}
}

// Valid reports whether the weights are non-negative and sum to 1.0 within
// floating-point tolerance.
func (w Weights) Valid() bool {
	for _, v := range []float64{w.Reputation, w.Creativity, w.Feasibility, w.Market, w.Engagement} {
		if v < 0 {
			return false
		}
	}
	sum := w.Reputation + w.Creativity + w.Feasibility + w.Market + w.Engagement
	return math.Abs(sum-1.0) < 1e-6
}

func (w Weights) blend(f Factors) int {
	sum := float64(f.Reputation)*w.Reputation +
		float64(f.Creativity)*w.Creativity +
		float64(f.Feasibility)*w.Feasibility +
		float64(f.Market)*w.Market +
		float64(f.Engagement)*w.Engagement
	score := int(math.Round(sum))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// Decision is the immutable outcome of scoring one submission.
type Decision struct {
	Score    int
	Factors  Factors
	Approved bool
	// Fallback marks an automatic approval issued because scoring itself
	// failed; the scheduler queues these at low priority instead of the head.
	Fallback bool
	Reason   string
}
