package schedule

import "sync"

// TopicSource supplies fresh topics for queue auto-fill. A source may run dry;
// the scheduler then falls back to the static filler pool and never blocks.
type TopicSource interface {
	// NextTopic returns a topic/angle pair suitable for the given day-part.
	// ok is false once the source is exhausted.
	NextTopic(dp DayPart) (topic, angle string, ok bool)
}

type poolEntry struct {
	topic string
	angle string
}

// PoolSource serves a fixed headline pool exactly once, in order.
type PoolSource struct {
	mu      sync.Mutex
	entries []poolEntry
	idx     int
}

func NewPoolSource(pairs ...[2]string) *PoolSource {
	p := &PoolSource{}
	for _, pr := range pairs {
		p.entries = append(p.entries, poolEntry{topic: pr[0], angle: pr[1]})
	}
	return p
}

// DefaultTopics is the built-in headline pool used when no external topic feed
// is wired in.
func DefaultTopics() *PoolSource {
	return NewPoolSource(
		[2]string{"the studio's mystery sponsor", "wild speculation"},
		[2]string{"viewer mail backlog hits record high", "mock outrage"},
		[2]string{"last night's ratings", "deadpan recap"},
		[2]string{"the vending machine incident", "eyewitness retelling"},
		[2]string{"weather on the studio roof", "overly dramatic"},
		[2]string{"rumors of a rival broadcast", "dismissive confidence"},
		[2]string{"the intern's first day", "warm embarrassment"},
		[2]string{"an award nobody has heard of", "earnest acceptance speech"},
	)
}

func (p *PoolSource) NextTopic(DayPart) (string, string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.idx >= len(p.entries) {
		return "", "", false
	}
	e := p.entries[p.idx]
	p.idx++
	return e.topic, e.angle, true
}
