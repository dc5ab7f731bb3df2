package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/gen"
	"showrunner/internal/show/continuity"
	"showrunner/internal/show/schedule"
	logx "showrunner/pkg/logx"
)

const (
	// DefaultTimeout caps one slow-path generation attempt.
	DefaultTimeout = 6 * time.Second
	// DefaultRetryMax bounds retries after a failed attempt.
	DefaultRetryMax = 1
)

// Config tunes the slow path. Zero values take the defaults above.
type Config struct {
	SpeakerA Speaker
	SpeakerB Speaker

	Timeout  time.Duration
	RetryMax int
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.RetryMax < 0 {
		c.RetryMax = DefaultRetryMax
	}
	return c
}

// Director drives one brief at a time through the fast/slow path and always
// comes back with a usable script.
type Director struct {
	mu  sync.Mutex
	cfg Config

	gen  gen.Client
	cont *continuity.Buffer
	bus  eventbus.Bus
	log  logx.Logger

	lastQuestion string
}

func NewDirector(cfg Config, client gen.Client, cont *continuity.Buffer, bus eventbus.Bus, log logx.Logger) *Director {
	if log.IsZero() {
		log = logx.Nop()
	}
	return &Director{
		cfg:  cfg.withDefaults(),
		gen:  client,
		cont: cont,
		bus:  bus,
		log:  log,
	}
}

// Apply swaps in new slow-path tuning. Safe to call between briefs.
func (d *Director) Apply(cfg Config) {
	d.mu.Lock()
	d.cfg = cfg.withDefaults()
	d.mu.Unlock()
}

// CaptureQuestion remembers the most recent audience question. The next
// audience-question segment folds it into the generation context no matter
// which path is taken.
func (d *Director) CaptureQuestion(question string) {
	question = strings.TrimSpace(question)
	if question == "" {
		return
	}
	d.mu.Lock()
	d.lastQuestion = question
	d.mu.Unlock()
}

// Direct produces the script for one brief. It never fails and never
// returns an empty script: generation trouble degrades to the deterministic
// fallback instead.
func (d *Director) Direct(ctx context.Context, brief schedule.Brief) Script {
	d.mu.Lock()
	cfg := d.cfg
	question := d.lastQuestion
	d.mu.Unlock()

	if brief.Kind != schedule.KindAudienceQuestion {
		question = ""
	} else if question == "" {
		question = brief.Topic
	}

	state := StateReceived
	advance := func(next State) {
		d.log.Debug("director state",
			logx.String("topic", brief.Topic),
			logx.String("from", state.String()),
			logx.String("to", next.String()),
		)
		state = next
	}

	s, ok := d.tryFastPath(brief, question)
	if ok {
		advance(StateFastPath)
	} else {
		advance(StateSlowPath)
		s = d.slowPath(ctx, cfg, brief, question)
	}

	advance(StateDispatched)
	d.signalCommentary(brief, s)
	advance(StateComplete)
	return s
}

func (d *Director) tryFastPath(brief schedule.Brief, question string) (Script, bool) {
	s, ok := lookupTemplate(brief)
	if !ok {
		return Script{}, false
	}
	if question != "" {
		s.LinesA = fmt.Sprintf("We have a question from the audience: %q. ", question) + s.LinesA
	}
	return s, true
}

func (d *Director) slowPath(ctx context.Context, cfg Config, brief schedule.Brief, question string) Script {
	var avoid []string
	if d.cont != nil {
		avoid = d.cont.AvoidList()
	}
	prompt := buildPrompt(brief, cfg.SpeakerA, cfg.SpeakerB, avoid, question)

	attempts := 1 + cfg.RetryMax
	for attempt := 1; attempt <= attempts; attempt++ {
		raw, err := d.generateOnce(ctx, cfg.Timeout, prompt)
		if err == nil {
			if s, ok := parseScript(raw, brief); ok {
				return s
			}
			err = gen.ErrMalformed
		}
		d.log.Warn("script generation attempt failed",
			logx.String("topic", brief.Topic),
			logx.Int("attempt", attempt),
			logx.Int("max_attempts", attempts),
			logx.Err(err),
		)
		if errors.Is(err, context.Canceled) {
			break
		}
	}

	d.log.Info("using fallback script", logx.String("topic", brief.Topic))
	return fallbackScript(brief)
}

// generateOnce races one generation call against the attempt timeout. Only
// the first outcome is acted on; a late result is discarded and the call's
// context is cancelled behind it.
func (d *Director) generateOnce(ctx context.Context, timeout time.Duration, prompt string) (string, error) {
	if d.gen == nil {
		return "", gen.ErrUnavailable
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		text string
		err  error
	}
	ch := make(chan outcome, 1)
	go func() {
		text, err := d.gen.Generate(ctx, prompt)
		ch <- outcome{text: text, err: err}
	}()

	select {
	case o := <-ch:
		return o.text, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", gen.ErrTimeout
		}
		return "", context.Canceled
	}
}

// signalCommentary fires the executive-insight request after every
// dispatch. It is decoupled from the turn loop: nobody waits on it.
func (d *Director) signalCommentary(brief schedule.Brief, s Script) {
	if d.bus == nil {
		return
	}
	d.bus.Publish(eventbus.Event{
		Type: eventbus.TopicCommentaryRequest,
		Data: Commentary{
			Context:    fmt.Sprintf("%s segment on %s, %s", brief.Kind, brief.Topic, brief.Angle),
			ShowStatus: fmt.Sprintf("pacing %s, fast_path=%v, fallback=%v", s.Pacing, s.FastPath, s.Fallback),
			BackupLine: fmt.Sprintf("And that was our look at %s.", brief.Topic),
		},
	})
}
