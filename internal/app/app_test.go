package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/show/schedule"
	"showrunner/internal/show/stage"
)

const testConfigYAML = `
logging:
  level: error
  console: false
generation:
  backend: scripted
  timeout: 50ms
  retry_max: 1
  rating_timeout: 50ms
show:
  speaker_a:
    id: ava
    name: Ava
    persona: upbeat anchor
    stance_bias: optimist
  speaker_b:
    id: bram
    name: Bram
    persona: dry co-host
    stance_bias: skeptic
  segment_seconds: 1
  turn_gap: 10ms
  recovery_window: 200ms
  continuity_size: 4
pitch:
  rate_per_minute: 60
`

func newTestApp(t *testing.T) *App {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfigYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	a, err := NewApp(path)
	if err != nil {
		t.Fatalf("NewApp: %v", err)
	}
	return a
}

func startTestApp(t *testing.T) (*App, <-chan eventbus.Event) {
	t.Helper()
	a := newTestApp(t)
	events, unsub := a.Bus().Subscribe(256)
	t.Cleanup(unsub)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := a.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	t.Cleanup(func() {
		if err := a.Stop(context.Background()); err != nil {
			t.Errorf("Stop: %v", err)
		}
	})
	return a, events
}

func awaitEvent(t *testing.T, events <-chan eventbus.Event, typ string, timeout time.Duration) eventbus.Event {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case ev := <-events:
			if ev.Type == typ {
				return ev
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", typ)
		}
	}
}

func TestShowLoopAirsSegments(t *testing.T) {
	a, events := startTestApp(t)

	// First cue always goes to speaker A.
	ev := awaitEvent(t, events, eventbus.TopicSpeakerCue, 5*time.Second)
	cue := ev.Data.(stage.Cue)
	if cue.Speaker != "ava" {
		t.Fatalf("first cue speaker = %q, want ava", cue.Speaker)
	}
	if cue.Instructions == "" {
		t.Fatal("empty cue instructions")
	}

	// Answer cues as the speaking agents would until the segment ends.
	done := make(chan struct{})
	go func() {
		defer close(done)
		deadline := time.After(10 * time.Second)
		a.Bus().Publish(eventbus.Event{
			Type: eventbus.TopicSpeechComplete,
			Data: Speech{Speaker: cue.Speaker, Summary: "opening delivered"},
		})
		for {
			select {
			case ev := <-events:
				switch ev.Type {
				case eventbus.TopicSpeakerCue:
					c := ev.Data.(stage.Cue)
					a.Bus().Publish(eventbus.Event{
						Type: eventbus.TopicSpeechComplete,
						Data: Speech{Speaker: c.Speaker, Summary: "turn delivered"},
					})
				case eventbus.TopicSegmentEnded:
					return
				}
			case <-deadline:
				return
			}
		}
	}()

	select {
	case <-done:
	case <-time.After(12 * time.Second):
		t.Fatal("segment never ended")
	}
}

func TestPitchAlwaysGetsDecision(t *testing.T) {
	a, events := startTestApp(t)

	a.SubmitPitch("mira", "a family sitcom about two roommates")

	ev := awaitEvent(t, events, eventbus.TopicPitchDecision, 5*time.Second)
	out := ev.Data.(PitchOutcome)
	if out.Submitter != "mira" || out.PitchID == "" {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Score < 0 || out.Score > 100 {
		t.Fatalf("score out of range: %d", out.Score)
	}
	if out.Reason == "" {
		t.Fatal("decision without a reason")
	}
	// The scripted backend has nothing queued, so rated factors sit at the
	// neutral baseline and the pitch cannot clear the approval bar.
	if out.Accepted {
		t.Fatalf("outcome = %+v, want rejection at baseline factors", out)
	}
}

func TestAudienceQuestionIsScheduled(t *testing.T) {
	a, events := startTestApp(t)

	a.CaptureQuestion("mira", "why is the clock four minutes fast?")

	// The question outranks everything auto-filled, so a snapshot soon shows
	// it in the upcoming queue.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-events:
			if ev.Type != eventbus.TopicScheduleSnapshot {
				continue
			}
			snap := ev.Data.(schedule.Snapshot)
			for _, label := range append([]string{snap.Now, snap.Next}, snap.Later...) {
				if strings.Contains(label, "why is the clock four minutes fast?") {
					return
				}
			}
		case <-deadline:
			t.Fatal("question never appeared in a schedule snapshot")
		}
	}
}
