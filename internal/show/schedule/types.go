package schedule

import (
	"fmt"
	"time"
)

// Kind is the closed set of segment content kinds. Keeping it an int enum (not
// a free-form string) forces exhaustive switches in the scheduler and the
// script director.
type Kind int

const (
	KindNews Kind = iota
	KindBanter
	KindAudienceQuestion
	KindPlayerPitch
	KindFiller
)

func (k Kind) String() string {
	switch k {
	case KindNews:
		return "news"
	case KindBanter:
		return "banter"
	case KindAudienceQuestion:
		return "audience-question"
	case KindPlayerPitch:
		return "player-pitch"
	case KindFiller:
		return "filler"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// DayPart is a coarse time-of-day bucket used to adjust pacing and duration.
type DayPart int

const (
	DayMorning DayPart = iota
	DayDaytime
	DayEvening
	DayLate
)

func (d DayPart) String() string {
	switch d {
	case DayMorning:
		return "morning"
	case DayDaytime:
		return "daytime"
	case DayEvening:
		return "evening"
	case DayLate:
		return "late"
	default:
		return fmt.Sprintf("daypart(%d)", int(d))
	}
}

// Scale stretches or shrinks the default segment budget for this day-part.
func (d DayPart) Scale() float64 {
	switch d {
	case DayMorning:
		return 0.9
	case DayDaytime:
		return 1.0
	case DayEvening:
		return 1.15
	case DayLate:
		return 0.8
	default:
		return 1.0
	}
}

// Pacing is the default delivery style for this day-part.
func (d DayPart) Pacing() string {
	switch d {
	case DayMorning:
		return "bright"
	case DayDaytime:
		return "steady"
	case DayEvening:
		return "punchy"
	case DayLate:
		return "mellow"
	default:
		return "steady"
	}
}

// DayPartFor buckets a wall-clock time.
func DayPartFor(t time.Time) DayPart {
	switch h := t.Hour(); {
	case h >= 5 && h < 11:
		return DayMorning
	case h >= 11 && h < 17:
		return DayDaytime
	case h >= 17 && h < 23:
		return DayEvening
	default:
		return DayLate
	}
}

// Priority bands. An approved pitch is always inserted above whatever is
// queued; a deferred (auto-approved) pitch sits below scheduled material but
// above filler, so it always airs eventually instead of being starved by
// queue refills.
const (
	PriorityFiller   = 10
	PriorityDeferred = 15
	PriorityBanter   = 20
	PriorityNews     = 30
	PriorityQuestion = 40
)

// Item is one scheduled unit of broadcast content.
type Item struct {
	Kind       Kind
	Topic      string
	Angle      string // format spin, e.g. "hot take", "deadpan recap"
	Engagement int    // predicted engagement 0-100
	Priority   int    // higher airs sooner; ties keep insertion order
	DayPart    DayPart
	FromAI     bool
	Submitter  string // set for pitch-derived items
}

// Label is the short on-screen form used in schedule snapshots.
func (it Item) Label() string {
	if it.Topic == "" {
		return it.Kind.String()
	}
	return fmt.Sprintf("%s: %s", it.Kind, it.Topic)
}

// Brief is the payload handed to the script director for one segment.
type Brief struct {
	Kind      Kind
	Topic     string
	Angle     string
	Duration  time.Duration
	DayPart   DayPart
	Submitter string
}

// Snapshot is the now/next/later view broadcast to display collaborators.
type Snapshot struct {
	Now   string   `json:"now"`
	Next  string   `json:"next"`
	Later []string `json:"later"`
	Depth int      `json:"depth"`
}
