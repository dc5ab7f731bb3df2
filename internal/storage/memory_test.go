package storage

import (
	"context"
	"fmt"
	"testing"

	logx "showrunner/pkg/logx"
)

func TestMemoryReputation(t *testing.T) {
	t.Parallel()
	s := NewMemory()
	ctx := context.Background()

	if _, ok, err := s.Reputation(ctx, "ghost"); err != nil || ok {
		t.Fatalf("unknown submitter: ok=%v err=%v", ok, err)
	}

	if err := s.SetReputation(ctx, "mira", 82); err != nil {
		t.Fatalf("SetReputation: %v", err)
	}
	score, ok, err := s.Reputation(ctx, "mira")
	if err != nil || !ok || score != 82 {
		t.Fatalf("Reputation = %d ok=%v err=%v", score, ok, err)
	}
}

func TestMemoryDecisionCap(t *testing.T) {
	t.Parallel()
	s := NewMemory().(*memoryStore)
	ctx := context.Background()

	for i := 0; i < memoryDecisionCap+25; i++ {
		if err := s.RecordDecision(ctx, DecisionEntry{PitchID: fmt.Sprintf("p-%d", i)}); err != nil {
			t.Fatalf("RecordDecision: %v", err)
		}
	}
	got := s.Decisions()
	if len(got) != memoryDecisionCap {
		t.Fatalf("len(decisions) = %d, want %d", len(got), memoryDecisionCap)
	}
	if got[0].PitchID != "p-25" {
		t.Fatalf("oldest kept = %s, want p-25", got[0].PitchID)
	}
}

func TestOpenDefaultsToMemory(t *testing.T) {
	t.Parallel()
	s, err := Open(Config{}, logx.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, ok := s.(*memoryStore); !ok {
		t.Fatalf("driver = %T, want *memoryStore", s)
	}

	if _, err := Open(Config{Driver: "etcd"}, logx.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
