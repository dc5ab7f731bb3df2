package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	logx "showrunner/pkg/logx"
)

//go:embed migrations.sql
var migrationsFS embed.FS

type sqliteStore struct {
	db  *sql.DB
	log logx.Logger
}

func openSQLite(cfg Config, log logx.Logger) (Store, error) {
	if strings.TrimSpace(cfg.Path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// SQLite prefers a small number of concurrent writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	st := &sqliteStore{db: db, log: log}

	// Basic pragmas.
	if cfg.BusyTimeout > 0 {
		ms := cfg.BusyTimeout.Milliseconds()
		_, _ = db.Exec(fmt.Sprintf("PRAGMA busy_timeout = %d", ms))
	}
	_, _ = db.Exec("PRAGMA journal_mode = WAL")
	_, _ = db.Exec("PRAGMA synchronous = NORMAL")

	if err := st.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return st, nil
}

func (s *sqliteStore) migrate(ctx context.Context) error {
	b, err := migrationsFS.ReadFile("migrations.sql")
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, string(b))
	return err
}

func (s *sqliteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *sqliteStore) Reputation(ctx context.Context, submitter string) (int, bool, error) {
	if s == nil || s.db == nil {
		return 0, false, ErrDisabled
	}
	var score int
	err := s.db.QueryRowContext(ctx,
		`SELECT score FROM reputation WHERE submitter = ?`, submitter,
	).Scan(&score)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

func (s *sqliteStore) SetReputation(ctx context.Context, submitter string, score int) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	if submitter == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reputation(submitter, score, updated) VALUES(?,?,?)
		 ON CONFLICT(submitter) DO UPDATE SET score=excluded.score, updated=excluded.updated`,
		submitter, score, time.Now().Format(time.RFC3339Nano),
	)
	return err
}

func (s *sqliteStore) RecordDecision(ctx context.Context, e DecisionEntry) error {
	if s == nil || s.db == nil {
		return ErrDisabled
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO decisions(at, pitch_id, submitter, score, approved, fallback, reason)
		 VALUES(?,?,?,?,?,?,?)`,
		e.At.Format(time.RFC3339Nano), e.PitchID, e.Submitter, e.Score,
		boolInt(e.Approved), boolInt(e.Fallback), e.Reason,
	)
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
