package pitch

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"showrunner/internal/gen"
	"showrunner/internal/storage"
	logx "showrunner/pkg/logx"
)

const (
	// DefaultThreshold is the fixed approval bar: approved iff score >= 75.
	DefaultThreshold = 75
	// DefaultRatingTimeout caps each rating call to the generation collaborator.
	DefaultRatingTimeout = 4 * time.Second

	neutralSubScore    = 50
	baselineEngagement = 70
)

// EngagementSource supplies the live audience-engagement metric in [0,100].
// The default is a neutral-high static baseline; a real telemetry feed can
// be plugged in without touching the evaluator.
type EngagementSource interface {
	CurrentEngagement() int
}

// StaticEngagement is a fixed EngagementSource.
type StaticEngagement int

func (s StaticEngagement) CurrentEngagement() int { return int(s) }

// EvaluatorConfig tunes scoring. Zero values take the documented defaults.
type EvaluatorConfig struct {
	Weights       Weights
	Threshold     int
	RatingTimeout time.Duration
}

func (c EvaluatorConfig) withDefaults() EvaluatorConfig {
	if !c.Weights.Valid() {
		c.Weights = DefaultWeights()
	}
	if c.Threshold <= 0 || c.Threshold > 100 {
		c.Threshold = DefaultThreshold
	}
	if c.RatingTimeout <= 0 {
		c.RatingTimeout = DefaultRatingTimeout
	}
	return c
}

// Evaluator turns a submission into an ApprovalDecision. Every sub-score
// degrades independently to a neutral default, and scoring as a whole never
// leaves a submission stuck: a hard failure yields an automatic low-priority
// approval instead of silence.
type Evaluator struct {
	mu  sync.Mutex
	cfg EvaluatorConfig

	gen         gen.Client
	store       storage.Store
	engagement  EngagementSource
	feasibility func(string) int
	log         logx.Logger
}

func NewEvaluator(cfg EvaluatorConfig, client gen.Client, store storage.Store, engagement EngagementSource, log logx.Logger) *Evaluator {
	if log.IsZero() {
		log = logx.Nop()
	}
	if engagement == nil {
		engagement = StaticEngagement(baselineEngagement)
	}
	return &Evaluator{
		cfg:         cfg.withDefaults(),
		gen:         client,
		store:       store,
		engagement:  engagement,
		feasibility: feasibilityScore,
		log:         log,
	}
}

// Apply swaps in new scoring parameters. Safe to call while scoring.
func (e *Evaluator) Apply(cfg EvaluatorConfig) {
	e.mu.Lock()
	e.cfg = cfg.withDefaults()
	e.mu.Unlock()
}

// Score computes the weighted approval decision for a submission.
func (e *Evaluator) Score(ctx context.Context, sub *Submission) (d Decision) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("pitch scoring failed, auto-approving at low priority",
				logx.String("pitch_id", sub.ID),
				logx.Any("panic", r),
			)
			d = Decision{
				Approved: true,
				Fallback: true,
				Reason:   "scoring failed; idea queued automatically at low priority",
			}
		}
	}()

	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	f := Factors{
		Reputation:  e.reputationScore(ctx, sub.Submitter),
		Creativity:  e.ratingScore(ctx, cfg.RatingTimeout, creativityPrompt(sub.Text)),
		Feasibility: clampSub(e.feasibility(sub.Text)),
		Market:      e.ratingScore(ctx, cfg.RatingTimeout, marketPrompt(sub.Text)),
		Engagement:  clampSub(e.engagement.CurrentEngagement()),
	}
	score := cfg.Weights.blend(f)
	approved := score >= cfg.Threshold

	reason := fmt.Sprintf("scored %d, at or above the approval bar of %d", score, cfg.Threshold)
	if !approved {
		reason = fmt.Sprintf("scored %d, below the approval bar of %d", score, cfg.Threshold)
	}

	return Decision{
		Score:    score,
		Factors:  f,
		Approved: approved,
		Reason:   reason,
	}
}

func (e *Evaluator) reputationScore(ctx context.Context, submitter string) int {
	if e.store == nil {
		return neutralSubScore
	}
	score, ok, err := e.store.Reputation(ctx, submitter)
	if err != nil {
		e.log.Warn("reputation lookup failed, using baseline",
			logx.String("submitter", submitter), logx.Err(err))
		return neutralSubScore
	}
	if !ok {
		return neutralSubScore
	}
	return clampSub(score)
}

// ratingScore asks the collaborator for a 1-100 rating. Unreachable, slow or
// non-numeric answers all degrade to the neutral default.
func (e *Evaluator) ratingScore(ctx context.Context, timeout time.Duration, prompt string) int {
	if e.gen == nil || !e.gen.Available() {
		return neutralSubScore
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	reply, err := e.gen.Generate(ctx, prompt)
	if err != nil {
		e.log.Debug("rating call failed, using baseline", logx.Err(err))
		return neutralSubScore
	}
	n, ok := parseRating(reply)
	if !ok {
		e.log.Debug("rating reply not numeric, using baseline", logx.String("reply", reply))
		return neutralSubScore
	}
	return n
}

// parseRating pulls the first integer out of a reply and accepts it only in
// the 1-100 range the prompt asked for.
func parseRating(reply string) (int, bool) {
	start := -1
	for i, r := range reply {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			reply = reply[:i]
			break
		}
	}
	if start < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(reply[start:]))
	if err != nil || n < 1 || n > 100 {
		return 0, false
	}
	return n, true
}

func creativityPrompt(text string) string {
	return "Rate the creativity of this broadcast segment idea from 1 to 100. " +
		"Reply with the number only.\n\nIdea: " + text
}

func marketPrompt(text string) string {
	return "Rate the market potential of this broadcast segment idea from 1 to 100, " +
		"meaning how broad an audience it would draw. Reply with the number only.\n\nIdea: " + text
}

func clampSub(n int) int {
	if n < 0 {
		return 0
	}
	if n > 100 {
		return 100
	}
	return n
}
