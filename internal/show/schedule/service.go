// Package schedule owns the prioritized queue of upcoming broadcast segments.
//
// The scheduler decides what airs next, keeps the queue topped up from a topic
// source (falling back to a static filler pool when the source runs dry), and
// lets approved audience pitches jump the line. Every mutation broadcasts a
// now/next/later snapshot for display collaborators.
package schedule

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"showrunner/internal/eventbus"
	logx "showrunner/pkg/logx"
)

// Config controls queue depth and pacing.
type Config struct {
	// MinDepth is the queue depth guaranteed after every RequestNext (default 3).
	MinDepth int
	// SegmentSeconds is the base time budget per segment before day-part scaling.
	SegmentSeconds int
	// DayPartSpec is a cron spec for re-evaluating the day-part (default hourly).
	DayPartSpec string
	Timezone    string
}

type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger
	bus eventbus.Bus

	topics TopicSource
	q      queue

	daypart   DayPart
	fillerIdx int
	fillSeq   int
	lastAired *Item

	c *cron.Cron
}

func New(cfg Config, log logx.Logger, bus eventbus.Bus, topics TopicSource) *Service {
	if cfg.MinDepth <= 0 {
		cfg.MinDepth = 3
	}
	if cfg.SegmentSeconds <= 0 {
		cfg.SegmentSeconds = 90
	}
	if strings.TrimSpace(cfg.DayPartSpec) == "" {
		cfg.DayPartSpec = "0 * * * *"
	}
	if topics == nil {
		topics = DefaultTopics()
	}
	return &Service{
		cfg:     cfg,
		log:     log,
		bus:     bus,
		topics:  topics,
		daypart: DayPartFor(time.Now()),
	}
}

// Start primes the queue and begins day-part rotation. Idempotent.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.c != nil {
		return nil
	}

	loc := time.Local
	if tz := strings.TrimSpace(s.cfg.Timezone); tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return fmt.Errorf("schedule: timezone: %w", err)
		}
		loc = l
	}

	c := cron.New(cron.WithLocation(loc))
	if _, err := c.AddFunc(s.cfg.DayPartSpec, s.rotateDayPart); err != nil {
		return fmt.Errorf("schedule: day_part_spec: %w", err)
	}
	s.c = c
	c.Start()

	s.refillLocked()
	s.publishSnapshotLocked()
	s.log.Info("scheduler started",
		logx.Int("depth", s.q.len()),
		logx.String("daypart", s.daypart.String()),
	)
	return nil
}

func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	s.mu.Unlock()

	if c == nil {
		return
	}
	select {
	case <-c.Stop().Done():
	case <-ctx.Done():
	}
	s.log.Info("scheduler stopped")
}

// rotateDayPart runs on the cron tick: re-evaluate the bucket and top the
// queue up so a quiet hour still keeps material staged.
func (s *Service) rotateDayPart() {
	now := time.Now()
	s.mu.Lock()
	prev := s.daypart
	s.daypart = DayPartFor(now)
	changed := prev != s.daypart
	dp := s.daypart
	depth := s.q.len()
	s.refillLocked()
	if s.q.len() != depth {
		s.publishSnapshotLocked()
	}
	s.mu.Unlock()

	if changed {
		s.log.Info("day-part rotated", logx.String("from", prev.String()), logx.String("to", dp.String()))
	}
}

// RequestNext dequeues the highest-priority item and refills the queue so its
// depth never drops below MinDepth. It never blocks and never fails: when
// everything is exhausted it answers from the static filler pool.
func (s *Service) RequestNext() Item {
	s.mu.Lock()
	it, ok := s.q.pop()
	if !ok {
		it = s.nextFiller()
	}
	s.refillLocked()
	s.lastAired = &it
	s.publishSnapshotLocked()
	s.mu.Unlock()

	s.log.Debug("segment dequeued",
		logx.String("kind", it.Kind.String()),
		logx.String("topic", it.Topic),
		logx.Int("priority", it.Priority),
	)
	return it
}

// SubmitApprovedPitch inserts an approved audience pitch above everything
// currently queued, so it airs next. This deliberately overrides FIFO: the
// audience should see its idea land while it still remembers pitching it.
func (s *Service) SubmitApprovedPitch(topic, submitter string) Item {
	s.mu.Lock()
	it := Item{
		Kind:       KindPlayerPitch,
		Topic:      topic,
		Angle:      "audience pitch, hosts riff on it",
		Engagement: 85,
		Priority:   s.q.maxPriority() + 1,
		DayPart:    s.daypart,
		Submitter:  submitter,
	}
	s.q.push(it)
	s.publishSnapshotLocked()
	s.mu.Unlock()

	s.log.Info("approved pitch scheduled next", logx.String("topic", topic), logx.String("submitter", submitter))
	return it
}

// EnqueueDeferredPitch queues an auto-approved pitch at low priority: it airs
// eventually, after fresher material, but the submitter is never dropped.
func (s *Service) EnqueueDeferredPitch(topic, submitter string) Item {
	s.mu.Lock()
	it := Item{
		Kind:       KindPlayerPitch,
		Topic:      topic,
		Angle:      "audience pitch, hosts riff on it",
		Engagement: 50,
		Priority:   PriorityDeferred,
		DayPart:    s.daypart,
		Submitter:  submitter,
	}
	s.q.push(it)
	s.publishSnapshotLocked()
	s.mu.Unlock()
	return it
}

// EnqueueQuestion schedules an audience-question segment.
func (s *Service) EnqueueQuestion(question, submitter string) Item {
	s.mu.Lock()
	it := Item{
		Kind:       KindAudienceQuestion,
		Topic:      question,
		Angle:      "hosts answer on air",
		Engagement: 70,
		Priority:   PriorityQuestion,
		DayPart:    s.daypart,
		Submitter:  submitter,
	}
	s.q.push(it)
	s.publishSnapshotLocked()
	s.mu.Unlock()
	return it
}

// BriefFor derives the director brief for an item, applying day-part scaling
// to the segment budget.
func (s *Service) BriefFor(it Item) Brief {
	s.mu.Lock()
	base := time.Duration(s.cfg.SegmentSeconds) * time.Second
	s.mu.Unlock()

	return Brief{
		Kind:      it.Kind,
		Topic:     it.Topic,
		Angle:     it.Angle,
		Duration:  time.Duration(float64(base) * it.DayPart.Scale()),
		DayPart:   it.DayPart,
		Submitter: it.Submitter,
	}
}

// Snapshot returns the current now/next/later view.
func (s *Service) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() Snapshot {
	snap := Snapshot{Depth: s.q.len()}
	if s.lastAired != nil {
		snap.Now = s.lastAired.Label()
	}
	upcoming := s.q.peek(4)
	if len(upcoming) > 0 {
		snap.Next = upcoming[0].Label()
	}
	for _, it := range upcoming[min(1, len(upcoming)):] {
		snap.Later = append(snap.Later, it.Label())
	}
	return snap
}

func (s *Service) publishSnapshotLocked() {
	if s.bus == nil {
		return
	}
	s.bus.Publish(eventbus.Event{Type: eventbus.TopicScheduleSnapshot, Data: s.snapshotLocked()})
}

// refillLocked tops the queue up to MinDepth, preferring the topic source and
// degrading to filler. Exhaustion is resolved here, never surfaced.
func (s *Service) refillLocked() {
	for s.q.len() < s.cfg.MinDepth {
		topic, angle, ok := s.topics.NextTopic(s.daypart)
		if !ok {
			s.q.push(s.nextFiller())
			continue
		}
		s.q.push(s.autoFillItem(topic, angle))
	}
}

func (s *Service) autoFillItem(topic, angle string) Item {
	s.fillSeq++
	kind := KindNews
	priority := PriorityNews
	if s.fillSeq%2 == 0 {
		kind = KindBanter
		priority = PriorityBanter
	}
	return Item{
		Kind:       kind,
		Topic:      topic,
		Angle:      angle,
		Engagement: 45 + (s.fillSeq*7)%21,
		Priority:   priority,
		DayPart:    s.daypart,
		FromAI:     true,
	}
}
