package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

const yamlOK = `
logging:
  level: DEBUG
  console: true
  file:
    enabled: false
    path: ""
generation:
  backend: scripted
  timeout: 6s
  retry_max: 1
show:
  speaker_a: {id: alex, name: Alex}
  speaker_b: {id: blair, name: Blair}
  segment_seconds: 90
  turn_gap: 1500ms
  recovery_window: 10s
pitch:
  threshold: 75
  weights:
    reputation: 0.20
    creativity: 0.25
    feasibility: 0.25
    market: 0.20
    engagement: 0.10
`

func TestLoadYAML(t *testing.T) {
	t.Parallel()
	m := NewManager(writeTemp(t, "config.yaml", yamlOK))
	cfg, err := m.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Show.SpeakerA.ID != "alex" || cfg.Show.SpeakerB.ID != "blair" {
		t.Fatalf("speakers = %q/%q", cfg.Show.SpeakerA.ID, cfg.Show.SpeakerB.ID)
	}
	if cfg.Pitch.Weights == nil || cfg.Pitch.Weights.Creativity != 0.25 {
		t.Fatalf("weights not decoded: %+v", cfg.Pitch.Weights)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if got := m.Get(); got != cfg {
		t.Fatal("Get should return the committed config")
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	t.Parallel()
	m := NewManager(writeTemp(t, "config.yaml", yamlOK+"\nmystery_knob: 1\n"))
	if _, err := m.Load(); err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	base := func() *Config {
		return &Config{
			Show: ShowConfig{
				SpeakerA: Speaker{ID: "alex"},
				SpeakerB: Speaker{ID: "blair"},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults ok", mutate: func(*Config) {}},
		{name: "same speaker ids", mutate: func(c *Config) { c.Show.SpeakerB.ID = "alex" }, wantErr: true},
		{name: "missing speaker", mutate: func(c *Config) { c.Show.SpeakerA.ID = " " }, wantErr: true},
		{name: "unknown backend", mutate: func(c *Config) { c.Generation.Backend = "carrier-pigeon" }, wantErr: true},
		{name: "recovery below timeout", mutate: func(c *Config) {
			c.Generation.Timeout = "6s"
			c.Show.RecoveryWindow = "5s"
		}, wantErr: true},
		{name: "weights off by a lot", mutate: func(c *Config) {
			c.Pitch.Weights = &WeightsConfig{Reputation: 0.5, Creativity: 0.5, Feasibility: 0.5}
		}, wantErr: true},
		{name: "weights exact", mutate: func(c *Config) {
			c.Pitch.Weights = &WeightsConfig{Reputation: 0.20, Creativity: 0.25, Feasibility: 0.25, Market: 0.20, Engagement: 0.10}
		}},
		{name: "negative weight", mutate: func(c *Config) {
			c.Pitch.Weights = &WeightsConfig{Reputation: -0.1, Creativity: 0.35, Feasibility: 0.25, Market: 0.30, Engagement: 0.20}
		}, wantErr: true},
		{name: "threshold out of range", mutate: func(c *Config) { c.Pitch.Threshold = 101 }, wantErr: true},
		{name: "bad storage driver", mutate: func(c *Config) { c.Storage = &StorageConfig{Driver: "etcd"} }, wantErr: true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}
