package pitch

import (
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	logx "showrunner/pkg/logx"
)

const (
	// DefaultBacklogCap bounds how many pending submissions are kept.
	DefaultBacklogCap = 10
	// DefaultRatePerMinute is the per-submitter intake limit.
	DefaultRatePerMinute = 3
	// DefaultMaxTextLen is where submission text gets truncated.
	DefaultMaxTextLen = 280
)

var (
	// ErrEmptyText rejects submissions that are blank after trimming.
	ErrEmptyText = errors.New("pitch text is empty")
	// ErrRateLimited rejects a submitter who is pitching too fast.
	ErrRateLimited = errors.New("submitter rate limit exceeded")
)

// BacklogConfig tunes intake hygiene. Zero values take the defaults above.
type BacklogConfig struct {
	Cap           int
	RatePerMinute int
	MaxTextLen    int
}

// Backlog is the bounded intake queue of pending submissions. When the cap
// is exceeded the oldest pending submission is evicted, never the newest:
// fresh audience input always gets a seat.
type Backlog struct {
	mu       sync.Mutex
	cfg      BacklogConfig
	log      logx.Logger
	pending  []*Submission
	limiters map[string]*rate.Limiter
}

func NewBacklog(cfg BacklogConfig, log logx.Logger) *Backlog {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultBacklogCap
	}
	if cfg.RatePerMinute <= 0 {
		cfg.RatePerMinute = DefaultRatePerMinute
	}
	if cfg.MaxTextLen <= 0 {
		cfg.MaxTextLen = DefaultMaxTextLen
	}
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Backlog{
		cfg:      cfg,
		log:      log,
		limiters: make(map[string]*rate.Limiter),
	}
}

// Submit trims and enqueues a new pending submission. Overflow silently
// evicts the oldest pending entry; rate-limit violations are the only
// rejections a submitter can see.
func (b *Backlog) Submit(submitter, text string, at time.Time) (*Submission, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(text) > b.cfg.MaxTextLen {
		text = strings.TrimSpace(text[:b.cfg.MaxTextLen])
	}
	if !b.limiterLocked(submitter).Allow() {
		return nil, ErrRateLimited
	}

	sub := newSubmission(submitter, text, at)
	b.pending = append(b.pending, sub)
	if len(b.pending) > b.cfg.Cap {
		evicted := b.pending[0]
		b.pending = append(b.pending[:0], b.pending[1:]...)
		b.log.Warn("pitch backlog full, evicted oldest",
			logx.String("evicted_id", evicted.ID),
			logx.String("submitter", evicted.Submitter),
		)
	}
	return sub, nil
}

// NextPending pops the oldest pending submission for evaluation.
func (b *Backlog) NextPending() (*Submission, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return nil, false
	}
	sub := b.pending[0]
	b.pending = append(b.pending[:0], b.pending[1:]...)
	return sub, true
}

// Resolve moves a submission to a terminal status. A submission resolves at
// most once; later calls are ignored.
func (b *Backlog) Resolve(sub *Submission, st Status) bool {
	if sub == nil || !st.Terminal() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub.Status.Terminal() {
		return false
	}
	sub.Status = st
	return true
}

// Len reports how many submissions are waiting.
func (b *Backlog) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

func (b *Backlog) limiterLocked(submitter string) *rate.Limiter {
	l, ok := b.limiters[submitter]
	if !ok {
		per := time.Minute / time.Duration(b.cfg.RatePerMinute)
		l = rate.NewLimiter(rate.Every(per), b.cfg.RatePerMinute)
		b.limiters[submitter] = l
	}
	return l
}
