package stage

import (
	"testing"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/show/continuity"
	"showrunner/internal/show/script"
	logx "showrunner/pkg/logx"
)

func testScript() script.Script {
	return script.Script{
		Topic:   "the vending machine incident",
		Pacing:  "steady",
		StanceA: "eyewitness",
		StanceB: "skeptic",
		LinesA:  "So there I was, coin in hand.",
		LinesB:  "I've heard this one before.",
	}
}

func newTestScheduler(cfg Config, bus eventbus.Bus, cont *continuity.Buffer) *Scheduler {
	cfg.SpeakerA = "ava"
	cfg.SpeakerB = "bram"
	return New(cfg, bus, cont, logx.Nop())
}

func nextCue(t *testing.T, events <-chan eventbus.Event) Cue {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == eventbus.TopicSpeakerCue {
				return ev.Data.(Cue)
			}
		case <-deadline:
			t.Fatal("timed out waiting for a speaker cue")
		}
	}
}

func TestTurnsAlternateStartingWithA(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(16)
	defer unsub()

	cont := continuity.NewBuffer(0)
	s := newTestScheduler(Config{TurnGap: time.Millisecond, RecoveryWindow: time.Minute}, bus, cont)
	defer s.Stop()

	s.StartSegment(testScript(), time.Minute)

	first := nextCue(t, events)
	if first.Speaker != "ava" || first.Turn != 1 {
		t.Fatalf("first cue = %+v, want speaker A on turn 1", first)
	}
	if first.ContinuityHint != "" {
		t.Fatalf("cue to A carries a continuity hint: %q", first.ContinuityHint)
	}
	if first.Instructions != testScript().LinesA {
		t.Fatalf("first instructions = %q", first.Instructions)
	}

	s.SpeechComplete("ava", "so there I was, coin in hand")
	second := nextCue(t, events)
	if second.Speaker != "bram" || second.Turn != 2 {
		t.Fatalf("second cue = %+v, want speaker B on turn 2", second)
	}
	if second.ContinuityHint == "" {
		t.Fatal("cue to B must carry a continuity hint")
	}

	s.SpeechComplete("bram", "heard it before")
	third := nextCue(t, events)
	if third.Speaker != "ava" || third.Turn != 3 {
		t.Fatalf("third cue = %+v, want speaker A on turn 3", third)
	}
	if third.ContinuityHint != "" {
		t.Fatal("cue to A must never carry a continuity hint")
	}
}

func TestBudgetEndsSegmentInsteadOfCueing(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(16)
	defer unsub()

	s := newTestScheduler(Config{TurnGap: time.Millisecond, RecoveryWindow: time.Minute}, bus, nil)
	defer s.Stop()

	s.StartSegment(testScript(), time.Millisecond)
	cue := nextCue(t, events)

	time.Sleep(5 * time.Millisecond)
	s.SpeechComplete(cue.Speaker, "done")

	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type == eventbus.TopicSpeakerCue {
				t.Fatal("cued another turn past the budget")
			}
			if ev.Type == eventbus.TopicSegmentEnded {
				end := ev.Data.(End)
				if end.Turns != 1 || end.Topic != testScript().Topic {
					t.Fatalf("end = %+v", end)
				}
				return
			}
		case <-deadline:
			t.Fatal("segment never ended")
		}
	}
}

func TestRecoveryWindowForcesProgress(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(16)
	defer unsub()

	s := newTestScheduler(Config{TurnGap: time.Millisecond, RecoveryWindow: 20 * time.Millisecond}, bus, nil)
	defer s.Stop()

	s.StartSegment(testScript(), time.Minute)
	first := nextCue(t, events)
	if first.Speaker != "ava" {
		t.Fatalf("first cue = %+v", first)
	}

	// No completion signal: the recovery window must cue B anyway.
	second := nextCue(t, events)
	if second.Speaker != "bram" || second.Turn != 2 {
		t.Fatalf("forced cue = %+v, want speaker B on turn 2", second)
	}
}

func TestStaleCompletionIgnored(t *testing.T) {
	t.Parallel()
	s := newTestScheduler(Config{TurnGap: time.Millisecond, RecoveryWindow: time.Minute}, nil, nil)
	defer s.Stop()

	s.StartSegment(testScript(), time.Minute)

	s.SpeechComplete("bram", "not my turn")
	st := s.Snapshot()
	if st.Current != "ava" || st.Turns != 1 {
		t.Fatalf("status = %+v, stale completion advanced the segment", st)
	}
}

func TestStopCancelsPendingTimers(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(16)
	defer unsub()

	s := newTestScheduler(Config{TurnGap: time.Millisecond, RecoveryWindow: 10 * time.Millisecond}, bus, nil)
	s.StartSegment(testScript(), time.Minute)
	nextCue(t, events)
	s.Stop()

	time.Sleep(30 * time.Millisecond)
	select {
	case ev := <-events:
		t.Fatalf("event %s published after Stop", ev.Type)
	default:
	}
	if st := s.Snapshot(); st.Active {
		t.Fatal("scheduler still active after Stop")
	}
}
