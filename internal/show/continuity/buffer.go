// Package continuity keeps a short memory of what just went out on air.
//
// The buffer stores fingerprints of recent utterances and turns them into
// "don't repeat this" constraints for the script director. It is owned by the
// orchestrator; components read it only through the references they are given
// at construction time.
package continuity

import (
	"strings"
	"sync"
	"time"
	"unicode"
)

const (
	// MaxSize caps how much recent output we remember.
	MaxSize     = 8
	DefaultSize = 6

	fingerprintLen = 80
)

type Entry struct {
	Speaker     string
	Fingerprint string
	At          time.Time
}

// Buffer is an append-only, size-bounded record of recent utterances.
// Oldest entries are evicted first.
type Buffer struct {
	mu      sync.Mutex
	limit   int
	entries []Entry
}

func NewBuffer(limit int) *Buffer {
	if limit <= 0 {
		limit = DefaultSize
	}
	if limit > MaxSize {
		limit = MaxSize
	}
	return &Buffer{limit: limit}
}

// Note records an utterance. Blank text is ignored.
func (b *Buffer) Note(speaker, text string) {
	fp := Fingerprint(text)
	if fp == "" {
		return
	}
	b.mu.Lock()
	b.entries = append(b.entries, Entry{Speaker: speaker, Fingerprint: fp, At: time.Now()})
	if len(b.entries) > b.limit {
		b.entries = b.entries[len(b.entries)-b.limit:]
	}
	b.mu.Unlock()
}

// Recent returns up to n fingerprints, newest last.
func (b *Buffer) Recent(n int) []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if n <= 0 || n > len(b.entries) {
		n = len(b.entries)
	}
	out := make([]string, 0, n)
	for _, e := range b.entries[len(b.entries)-n:] {
		out = append(out, e.Fingerprint)
	}
	return out
}

// AvoidList returns every remembered fingerprint, for use as uniqueness
// constraints in generation prompts.
func (b *Buffer) AvoidList() []string {
	return b.Recent(0)
}

// Last returns the most recent entry, if any.
func (b *Buffer) Last() (Entry, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.entries) == 0 {
		return Entry{}, false
	}
	return b.entries[len(b.entries)-1], true
}

func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Fingerprint normalizes text to a short, comparable form: lowercase, collapsed
// whitespace, truncated at a word boundary.
func Fingerprint(text string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimFunc(text, unicode.IsSpace)))
	if len(fields) == 0 {
		return ""
	}
	s := strings.Join(fields, " ")
	if len(s) <= fingerprintLen {
		return s
	}
	cut := strings.LastIndexByte(s[:fingerprintLen], ' ')
	if cut <= 0 {
		cut = fingerprintLen
	}
	return s[:cut]
}
