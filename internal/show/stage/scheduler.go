package stage

import (
	"fmt"
	"sync"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/show/continuity"
	"showrunner/internal/show/script"
	logx "showrunner/pkg/logx"
)

const (
	// DefaultTurnGap is the fixed pause between alternating cues.
	DefaultTurnGap = 2 * time.Second
	// DefaultRecoveryWindow forces progression when no completion signal
	// arrives. It must stay larger than the script generation timeout.
	DefaultRecoveryWindow = 10 * time.Second
)

// Config tunes turn pacing. Zero values take the defaults above.
type Config struct {
	SpeakerA string
	SpeakerB string

	TurnGap        time.Duration
	RecoveryWindow time.Duration
}

func (c Config) withDefaults() Config {
	if c.TurnGap <= 0 {
		c.TurnGap = DefaultTurnGap
	}
	if c.RecoveryWindow <= 0 {
		c.RecoveryWindow = DefaultRecoveryWindow
	}
	return c
}

// Scheduler alternates cues between the two speakers for one segment at a
// time. All timers are guarded by a sequence number so a cancelled or stale
// timer can never advance the segment twice.
type Scheduler struct {
	mu  sync.Mutex
	cfg Config
	bus eventbus.Bus

	cont *continuity.Buffer
	log  logx.Logger

	active  bool
	scr     script.Script
	budget  time.Duration
	started time.Time
	current string
	turns   int
	seq     uint64

	gapTimer      *time.Timer
	recoveryTimer *time.Timer
}

func New(cfg Config, bus eventbus.Bus, cont *continuity.Buffer, log logx.Logger) *Scheduler {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Scheduler{
		cfg:  cfg.withDefaults(),
		bus:  bus,
		cont: cont,
		log:  log,
	}
}

// Apply swaps in new pacing. The running segment keeps its issued timers;
// the new gaps take effect from the next turn.
func (s *Scheduler) Apply(cfg Config) {
	s.mu.Lock()
	s.cfg = cfg.withDefaults()
	s.mu.Unlock()
}

// StartSegment begins alternating cues for a script, speaker A first. An
// already-running segment is ended first.
func (s *Scheduler) StartSegment(scr script.Script, budget time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.active {
		s.log.Warn("segment started while another is live, ending previous",
			logx.String("topic", s.scr.Topic))
		s.endSegmentLocked()
	}

	s.active = true
	s.scr = scr
	s.budget = budget
	s.started = time.Now()
	s.turns = 0
	s.seq++

	s.cueLocked(s.cfg.SpeakerA)
}

// SpeechComplete advances the segment after a speaker finishes. Signals
// from anyone but the currently-cued speaker are stale and ignored.
func (s *Scheduler) SpeechComplete(speaker, summary string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active || speaker != s.current {
		return
	}
	s.seq++
	s.stopTimersLocked()
	s.current = ""

	if summary != "" && s.cont != nil {
		s.cont.Note(speaker, summary)
	}

	if time.Since(s.started) >= s.budget {
		s.endSegmentLocked()
		return
	}

	next := s.other(speaker)
	seq := s.seq
	s.gapTimer = time.AfterFunc(s.cfg.TurnGap, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if !s.active || s.seq != seq {
			return
		}
		s.cueLocked(next)
	})
}

// Stop ends any running segment without publishing an end signal.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.stopTimersLocked()
	s.active = false
	s.current = ""
}

// Snapshot reports the current turn state.
func (s *Scheduler) Snapshot() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{
		Active:  s.active,
		Topic:   s.scr.Topic,
		Current: s.current,
		Turns:   s.turns,
	}
	if s.active {
		st.Elapsed = time.Since(s.started)
	}
	return st
}

func (s *Scheduler) cueLocked(speaker string) {
	s.turns++
	s.current = speaker

	cue := Cue{
		Speaker: speaker,
		Topic:   s.scr.Topic,
		Pacing:  s.scr.Pacing,
		Turn:    s.turns,
	}
	switch speaker {
	case s.cfg.SpeakerA:
		cue.Stance = s.scr.StanceA
	default:
		cue.Stance = s.scr.StanceB
		if s.cont != nil {
			if last, ok := s.cont.Last(); ok {
				cue.ContinuityHint = fmt.Sprintf("%s just said: %s", last.Speaker, last.Fingerprint)
			}
		}
	}
	cue.Instructions = s.instructionsLocked(speaker)

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TopicSpeakerCue, Data: cue})
	}
	s.log.Debug("speaker cued",
		logx.String("speaker", speaker),
		logx.Int("turn", s.turns),
		logx.String("topic", s.scr.Topic),
	)

	seq := s.seq
	s.recoveryTimer = time.AfterFunc(s.cfg.RecoveryWindow, func() {
		s.forceProgress(seq, speaker)
	})
}

// instructionsLocked gives the scripted opener on each speaker's first turn
// and a free-form continuation after that.
func (s *Scheduler) instructionsLocked(speaker string) string {
	switch {
	case s.turns == 1:
		return s.scr.LinesA
	case s.turns == 2 && speaker == s.cfg.SpeakerB:
		return s.scr.LinesB
	default:
		return fmt.Sprintf("Keep the exchange going on %s. Respond to your co-host.", s.scr.Topic)
	}
}

// forceProgress treats a missing completion signal as an implicit one so
// the segment can never stall on a silent speaker.
func (s *Scheduler) forceProgress(seq uint64, speaker string) {
	s.mu.Lock()
	stale := !s.active || s.seq != seq || s.current != speaker
	s.mu.Unlock()
	if stale {
		return
	}
	s.log.Warn("no completion signal within recovery window, forcing turn",
		logx.String("speaker", speaker))
	s.SpeechComplete(speaker, "")
}

func (s *Scheduler) endSegmentLocked() {
	s.stopTimersLocked()
	end := End{
		Topic:   s.scr.Topic,
		Turns:   s.turns,
		Elapsed: time.Since(s.started),
		Budget:  s.budget,
	}
	s.active = false
	s.current = ""

	if s.bus != nil {
		s.bus.Publish(eventbus.Event{Type: eventbus.TopicSegmentEnded, Data: end})
	}
	s.log.Info("segment ended",
		logx.String("topic", end.Topic),
		logx.Int("turns", end.Turns),
		logx.Duration("elapsed", end.Elapsed),
	)
}

func (s *Scheduler) stopTimersLocked() {
	if s.gapTimer != nil {
		s.gapTimer.Stop()
		s.gapTimer = nil
	}
	if s.recoveryTimer != nil {
		s.recoveryTimer.Stop()
		s.recoveryTimer = nil
	}
}

func (s *Scheduler) other(speaker string) string {
	if speaker == s.cfg.SpeakerA {
		return s.cfg.SpeakerB
	}
	return s.cfg.SpeakerA
}
