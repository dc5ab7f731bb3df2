package script

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/gen"
	"showrunner/internal/show/continuity"
	"showrunner/internal/show/schedule"
	logx "showrunner/pkg/logx"
)

func testConfig() Config {
	return Config{
		SpeakerA: Speaker{ID: "ava", Name: "Ava", Persona: "upbeat anchor", StanceBias: "optimist"},
		SpeakerB: Speaker{ID: "bram", Name: "Bram", Persona: "dry co-host", StanceBias: "skeptic"},
	}
}

func newsBrief(topic, angle string) schedule.Brief {
	return schedule.Brief{
		Kind:     schedule.KindNews,
		Topic:    topic,
		Angle:    angle,
		Duration: 90 * time.Second,
		DayPart:  schedule.DayDaytime,
	}
}

const goodReply = `PACING: punchy
STANCE_A: thinks the chairs deserve respect
STANCE_B: thinks chairs are furniture
SCRIPT_A: Big news tonight about the chairs.
SCRIPT_B: It is never big news about the chairs.`

func TestDirectFastPathSkipsCollaborator(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted(goodReply)
	d := NewDirector(testConfig(), client, nil, nil, logx.Nop())

	brief := schedule.Brief{
		Kind:    schedule.KindFiller,
		Topic:   "an improvised jingle",
		Angle:   "musical",
		DayPart: schedule.DayEvening,
	}
	s := d.Direct(context.Background(), brief)
	if !s.FastPath {
		t.Fatal("expected the fast path for a known filler topic")
	}
	if s.LinesA == "" || s.LinesB == "" {
		t.Fatalf("fast-path script has empty lines: %+v", s)
	}
	if client.Calls() != 0 {
		t.Fatalf("collaborator calls = %d, want 0 on the fast path", client.Calls())
	}
}

func TestDirectSlowPathParsesSections(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted(goodReply)
	d := NewDirector(testConfig(), client, nil, nil, logx.Nop())

	s := d.Direct(context.Background(), newsBrief("the chair shortage", "mock outrage"))
	if s.FastPath || s.Fallback {
		t.Fatalf("script = %+v, want a parsed slow-path script", s)
	}
	if s.Pacing != "punchy" || s.StanceA != "thinks the chairs deserve respect" {
		t.Fatalf("parsed script = %+v", s)
	}
	if client.Calls() != 1 {
		t.Fatalf("collaborator calls = %d, want 1", client.Calls())
	}
}

func TestDirectRetriesOnceThenFallsBack(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted()
	client.Fail(gen.ErrUnavailable)
	d := NewDirector(testConfig(), client, nil, nil, logx.Nop())

	s := d.Direct(context.Background(), newsBrief("the chair shortage", "mock outrage"))
	if !s.Fallback {
		t.Fatalf("script = %+v, want the deterministic fallback", s)
	}
	if s.LinesA == "" || s.LinesB == "" {
		t.Fatal("fallback script must never have empty lines")
	}
	if s.StanceA != s.StanceB {
		t.Fatalf("fallback stances differ: %q vs %q", s.StanceA, s.StanceB)
	}
	// One initial attempt plus exactly one retry.
	if client.Calls() != 2 {
		t.Fatalf("collaborator calls = %d, want 2", client.Calls())
	}
}

// stalledClient never answers; it only notices the context deadline.
type stalledClient struct{ calls atomic.Int64 }

func (c *stalledClient) Available() bool { return true }

func (c *stalledClient) Generate(ctx context.Context, _ string) (string, error) {
	c.calls.Add(1)
	<-ctx.Done()
	return "", ctx.Err()
}

func TestDirectTimesOutStalledCollaborator(t *testing.T) {
	t.Parallel()
	client := &stalledClient{}
	cfg := testConfig()
	cfg.Timeout = 20 * time.Millisecond
	d := NewDirector(cfg, client, nil, nil, logx.Nop())

	start := time.Now()
	s := d.Direct(context.Background(), newsBrief("the chair shortage", "mock outrage"))
	if !s.Fallback {
		t.Fatalf("script = %+v, want fallback after timeouts", s)
	}
	if calls := client.calls.Load(); calls != 2 {
		t.Fatalf("collaborator calls = %d, want 2", calls)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("Direct took %v, timeout race not effective", elapsed)
	}
}

func TestDirectMalformedReplyRetries(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted("no sections whatsoever", goodReply)
	d := NewDirector(testConfig(), client, nil, nil, logx.Nop())

	s := d.Direct(context.Background(), newsBrief("the chair shortage", "mock outrage"))
	if s.Fallback {
		t.Fatalf("script = %+v, want the retry to succeed", s)
	}
	if client.Calls() != 2 {
		t.Fatalf("collaborator calls = %d, want 2", client.Calls())
	}
}

func TestDirectPromptCarriesAvoidListAndStances(t *testing.T) {
	t.Parallel()
	cont := continuity.NewBuffer(0)
	cont.Note("ava", "the vending machine story again")
	client := gen.NewScripted(goodReply)
	d := NewDirector(testConfig(), client, cont, nil, logx.Nop())

	d.Direct(context.Background(), newsBrief("fresh topic", "straight read"))

	prompts := client.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(prompts))
	}
	p := prompts[0]
	for _, want := range []string{
		"the vending machine story again",
		"Ava", "Bram", "optimist", "skeptic",
		"PACING:", "SCRIPT_A:", "SCRIPT_B:",
	} {
		if !strings.Contains(p, want) {
			t.Fatalf("prompt missing %q:\n%s", want, p)
		}
	}
}

func TestDirectAudienceQuestionOverridesContext(t *testing.T) {
	t.Parallel()
	client := gen.NewScripted(goodReply)
	d := NewDirector(testConfig(), client, nil, nil, logx.Nop())
	d.CaptureQuestion("why is the clock four minutes fast?")

	brief := newsBrief("viewer questions", "hosts answer on air")
	brief.Kind = schedule.KindAudienceQuestion
	d.Direct(context.Background(), brief)

	prompts := client.Prompts()
	if len(prompts) != 1 {
		t.Fatalf("prompts = %d, want 1", len(prompts))
	}
	if !strings.Contains(prompts[0], "why is the clock four minutes fast?") {
		t.Fatalf("prompt missing the captured question:\n%s", prompts[0])
	}
}

func TestDirectSignalsCommentary(t *testing.T) {
	t.Parallel()
	bus := eventbus.New()
	events, unsub := bus.Subscribe(4)
	defer unsub()

	d := NewDirector(testConfig(), gen.NewScripted(goodReply), nil, bus, logx.Nop())
	d.Direct(context.Background(), newsBrief("the chair shortage", "mock outrage"))

	select {
	case ev := <-events:
		if ev.Type != eventbus.TopicCommentaryRequest {
			t.Fatalf("event type = %s", ev.Type)
		}
		c := ev.Data.(Commentary)
		if c.BackupLine == "" || !strings.Contains(c.Context, "the chair shortage") {
			t.Fatalf("commentary = %+v", c)
		}
	case <-time.After(time.Second):
		t.Fatal("no commentary request published")
	}
}
