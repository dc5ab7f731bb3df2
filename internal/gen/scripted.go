package gen

import (
	"context"
	"sync"
)

// Scripted is an in-process Client that replays canned responses.
//
// It backs the "scripted" config backend (offline/demo mode) and doubles as
// the test collaborator: tests can queue replies, force errors, and assert
// on call counts and received prompts.
type Scripted struct {
	mu      sync.Mutex
	replies []string
	err     error
	down    bool

	calls   int
	prompts []string
}

func NewScripted(replies ...string) *Scripted {
	return &Scripted{replies: append([]string(nil), replies...)}
}

// Fail makes every subsequent Generate call return err until cleared.
func (s *Scripted) Fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

// SetDown toggles the Available() hint.
func (s *Scripted) SetDown(down bool) {
	s.mu.Lock()
	s.down = down
	s.mu.Unlock()
}

// Queue appends replies to be returned in order. When the queue is exhausted
// the last reply is repeated.
func (s *Scripted) Queue(replies ...string) {
	s.mu.Lock()
	s.replies = append(s.replies, replies...)
	s.mu.Unlock()
}

func (s *Scripted) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *Scripted) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.prompts...)
}

func (s *Scripted) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.down
}

func (s *Scripted) Generate(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.prompts = append(s.prompts, prompt)

	if s.err != nil {
		return "", s.err
	}
	if s.down {
		return "", ErrUnavailable
	}
	if len(s.replies) == 0 {
		return "", ErrEmpty
	}
	reply := s.replies[0]
	if len(s.replies) > 1 {
		s.replies = s.replies[1:]
	}
	if reply == "" {
		return "", ErrEmpty
	}
	return reply, nil
}

var _ Client = (*Scripted)(nil)
