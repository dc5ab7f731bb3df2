package storage

import (
	"context"
	"errors"
	"strings"

	logx "showrunner/pkg/logx"
)

// Store is the reputation/decision persistence API used by the evaluator.
type Store interface {
	// Reputation returns the known reputation score for a submitter.
	// ok is false for unknown submitters; the caller applies its own baseline.
	Reputation(ctx context.Context, submitter string) (score int, ok bool, err error)
	SetReputation(ctx context.Context, submitter string, score int) error
	RecordDecision(ctx context.Context, e DecisionEntry) error
	Close() error
}

// Open initializes the configured store. An empty or "none" driver yields the
// memory store so callers never have to nil-check.
func Open(cfg Config, log logx.Logger) (Store, error) {
	if log.IsZero() {
		log = logx.Nop()
	}

	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", "none", "memory":
		return NewMemory(), nil
	case "sqlite", "sqlite3":
		return openSQLite(cfg, log)
	default:
		return nil, errors.New("unknown storage driver: " + driver)
	}
}
