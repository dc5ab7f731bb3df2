package storage

import (
	"context"
	"sync"
	"time"
)

const memoryDecisionCap = 500

// memoryStore keeps reputation and a bounded decision history in process.
type memoryStore struct {
	mu         sync.RWMutex
	reputation map[string]int
	decisions  []DecisionEntry
}

func NewMemory() Store {
	return &memoryStore{reputation: map[string]int{}}
}

func (s *memoryStore) Reputation(_ context.Context, submitter string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	score, ok := s.reputation[submitter]
	return score, ok, nil
}

func (s *memoryStore) SetReputation(_ context.Context, submitter string, score int) error {
	if submitter == "" {
		return nil
	}
	s.mu.Lock()
	s.reputation[submitter] = score
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) RecordDecision(_ context.Context, e DecisionEntry) error {
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.mu.Lock()
	s.decisions = append(s.decisions, e)
	if len(s.decisions) > memoryDecisionCap {
		s.decisions = s.decisions[len(s.decisions)-memoryDecisionCap:]
	}
	s.mu.Unlock()
	return nil
}

// Decisions returns a copy of the recorded history (diagnostics/tests).
func (s *memoryStore) Decisions() []DecisionEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]DecisionEntry(nil), s.decisions...)
}

func (s *memoryStore) Close() error { return nil }
