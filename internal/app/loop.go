package app

import (
	"context"
	"time"

	"showrunner/internal/eventbus"
	"showrunner/internal/show/pitch"
	"showrunner/internal/storage"
	logx "showrunner/pkg/logx"
)

// SubmittedPitch is the inbound signal from audience-facing surfaces.
type SubmittedPitch struct {
	Submitter string
	Text      string
	At        time.Time
}

// Question is the inbound audience-question signal.
type Question struct {
	Text      string
	Submitter string
}

// Speech is the completion signal from a speaking-agent collaborator.
type Speech struct {
	Speaker string
	Summary string
}

// PitchOutcome is published for every submission so presentation
// collaborators can tell the submitter what happened.
type PitchOutcome struct {
	PitchID   string
	Submitter string
	Accepted  bool
	Score     int
	Reason    string
	Fallback  bool
}

// SubmitPitch publishes a pitch submission into the show loop.
func (a *App) SubmitPitch(submitter, text string) {
	a.bus.Publish(eventbus.Event{
		Type: eventbus.TopicPitchSubmitted,
		Data: SubmittedPitch{Submitter: submitter, Text: text, At: time.Now()},
	})
}

// CaptureQuestion publishes an audience question into the show loop.
func (a *App) CaptureQuestion(submitter, text string) {
	a.bus.Publish(eventbus.Event{
		Type: eventbus.TopicQuestionCaptured,
		Data: Question{Text: text, Submitter: submitter},
	})
}

// runLoop is the single consumer of show signals. Every handler runs to
// completion before the next signal is looked at, so no two components ever
// mutate shared state concurrently.
func (a *App) runLoop(ctx context.Context) error {
	events, unsub := a.bus.Subscribe(128)
	defer unsub()

	for ctx.Err() == nil {
		a.runSegment(ctx, events)
	}
	return nil
}

// runSegment airs one segment end to end: dequeue, direct, cue turns, and
// keep absorbing audience signals until the segment ends.
func (a *App) runSegment(ctx context.Context, events <-chan eventbus.Event) {
	it := a.sched.RequestNext()
	brief := a.sched.BriefFor(it)
	a.bus.Publish(eventbus.Event{Type: eventbus.TopicSegmentBrief, Data: brief})

	scr := a.director.Direct(ctx, brief)
	a.stage.StartSegment(scr, brief.Duration)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if a.handleEvent(ctx, ev) {
				return
			}
		}
	}
}

// handleEvent reacts to one signal; true means the current segment is over.
func (a *App) handleEvent(ctx context.Context, ev eventbus.Event) bool {
	switch ev.Type {
	case eventbus.TopicPitchSubmitted:
		if p, ok := ev.Data.(SubmittedPitch); ok {
			a.handlePitch(ctx, p)
		}
	case eventbus.TopicSpeechComplete:
		if sp, ok := ev.Data.(Speech); ok {
			a.stage.SpeechComplete(sp.Speaker, sp.Summary)
		}
	case eventbus.TopicQuestionCaptured:
		if q, ok := ev.Data.(Question); ok {
			a.director.CaptureQuestion(q.Text)
			a.sched.EnqueueQuestion(q.Text, q.Submitter)
		}
	case eventbus.TopicSegmentEnded:
		return true
	}
	return false
}

func (a *App) handlePitch(ctx context.Context, p SubmittedPitch) {
	at := p.At
	if at.IsZero() {
		at = time.Now()
	}
	if _, err := a.backlog.Submit(p.Submitter, p.Text, at); err != nil {
		a.log.Debug("pitch dropped at intake",
			logx.String("submitter", p.Submitter), logx.Err(err))
		return
	}
	a.evaluateNext(ctx)
}

// evaluateNext scores the oldest pending submission. Submitters always get
// a decision: even a scoring failure resolves the pitch.
func (a *App) evaluateNext(ctx context.Context) {
	sub, ok := a.backlog.NextPending()
	if !ok {
		return
	}

	d := a.eval.Score(ctx, sub)

	status := pitch.StatusRejected
	switch {
	case d.Fallback:
		status = pitch.StatusAutoApproved
	case d.Approved:
		status = pitch.StatusApproved
	}
	a.backlog.Resolve(sub, status)

	a.bus.Publish(eventbus.Event{
		Type: eventbus.TopicPitchDecision,
		Data: PitchOutcome{
			PitchID:   sub.ID,
			Submitter: sub.Submitter,
			Accepted:  d.Approved,
			Score:     d.Score,
			Reason:    d.Reason,
			Fallback:  d.Fallback,
		},
	})

	if err := a.store.RecordDecision(ctx, decisionEntry(sub, d)); err != nil {
		a.log.Warn("decision not recorded", logx.Err(err))
	}
	if !d.Fallback {
		a.adjustReputation(ctx, sub.Submitter, d.Approved)
	}

	switch {
	case d.Fallback:
		a.sched.EnqueueDeferredPitch(sub.Text, sub.Submitter)
	case d.Approved:
		a.sched.SubmitApprovedPitch(sub.Text, sub.Submitter)
	}

	a.log.Info("pitch decided",
		logx.String("pitch_id", sub.ID),
		logx.String("submitter", sub.Submitter),
		logx.Int("score", d.Score),
		logx.String("status", status.String()),
	)
}

func decisionEntry(sub *pitch.Submission, d pitch.Decision) storage.DecisionEntry {
	return storage.DecisionEntry{
		At:        time.Now(),
		PitchID:   sub.ID,
		Submitter: sub.Submitter,
		Score:     d.Score,
		Approved:  d.Approved,
		Fallback:  d.Fallback,
		Reason:    d.Reason,
	}
}

// adjustReputation drifts a submitter's stored reputation with each real
// decision, so repeat pitchers earn their score over time.
func (a *App) adjustReputation(ctx context.Context, submitter string, approved bool) {
	rep, ok, err := a.store.Reputation(ctx, submitter)
	if err != nil {
		return
	}
	if !ok {
		rep = 50
	}
	if approved {
		rep += 3
	} else {
		rep--
	}
	if rep > 100 {
		rep = 100
	}
	if rep < 0 {
		rep = 0
	}
	if err := a.store.SetReputation(ctx, submitter, rep); err != nil {
		a.log.Warn("reputation update failed", logx.Err(err))
	}
}
