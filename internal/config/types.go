package config

type Config struct {
	Logging    LoggingConfig    `json:"logging"`
	Generation GenerationConfig `json:"generation"`
	Show       ShowConfig       `json:"show"`
	Pitch      PitchConfig      `json:"pitch"`
	Storage    *StorageConfig   `json:"storage,omitempty"`
}

type LoggingConfig struct {
	Level   string      `json:"level"`
	Console bool        `json:"console"`
	File    LoggingFile `json:"file"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// GenerationConfig controls the external dialogue-generation collaborator.
//
// All durations are Go duration strings (e.g. "500ms", "6s").
//
// Backend values:
//   - "openai": OpenAI-compatible chat completions endpoint (base_url + model)
//   - "scripted": in-process canned responses (offline/demo mode)
//
// Defaults (when fields are omitted/zero):
//   - timeout: "6s"
//   - retry_max: 1
//   - rating_timeout: "4s"
//   - max_tokens: 700
type GenerationConfig struct {
	Backend string `json:"backend"`
	BaseURL string `json:"base_url,omitempty"`
	APIKey  string `json:"api_key,omitempty"`
	Model   string `json:"model,omitempty"`

	MaxTokens int `json:"max_tokens,omitempty"`

	// Timeout caps each script-generation attempt.
	Timeout string `json:"timeout,omitempty"`
	// RetryMax bounds retries after a failed/timed-out attempt.
	RetryMax int `json:"retry_max,omitempty"`
	// RatingTimeout caps each pitch-rating call made by the evaluator.
	RatingTimeout string `json:"rating_timeout,omitempty"`
}

// ShowConfig controls segment pacing and the two speaking agents.
type ShowConfig struct {
	SpeakerA Speaker `json:"speaker_a"`
	SpeakerB Speaker `json:"speaker_b"`

	// SegmentSeconds is the default time budget per segment; day-parts scale it.
	SegmentSeconds int `json:"segment_seconds,omitempty"`

	// TurnGap is the fixed pause between alternating speaker cues.
	TurnGap string `json:"turn_gap,omitempty"`

	// RecoveryWindow forces turn progression when a speaker never reports
	// completion. It must be larger than generation.timeout.
	RecoveryWindow string `json:"recovery_window,omitempty"`

	MinQueueDepth  int `json:"min_queue_depth,omitempty"`
	ContinuitySize int `json:"continuity_size,omitempty"`

	// DayPartSpec is a cron spec that re-evaluates the current day-part.
	DayPartSpec string `json:"day_part_spec,omitempty"`
	Timezone    string `json:"timezone,omitempty"`
}

type Speaker struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Persona string `json:"persona,omitempty"`
	// StanceBias nudges the generated stance (e.g. "optimist", "skeptic").
	StanceBias string `json:"stance_bias,omitempty"`
}

// PitchConfig controls audience pitch intake and scoring.
//
// Weights must sum to 1.0; if the whole block is omitted the documented
// defaults apply (reputation .20, creativity .25, feasibility .25,
// market .20, engagement .10).
type PitchConfig struct {
	Weights   *WeightsConfig `json:"weights,omitempty"`
	Threshold int            `json:"threshold,omitempty"` // default 75

	BacklogCap    int `json:"backlog_cap,omitempty"`     // default 10
	RatePerMinute int `json:"rate_per_minute,omitempty"` // per submitter, default 3
	MaxTextLen    int `json:"max_text_len,omitempty"`    // default 280
}

type WeightsConfig struct {
	Reputation  float64 `json:"reputation"`
	Creativity  float64 `json:"creativity"`
	Feasibility float64 `json:"feasibility"`
	Market      float64 `json:"market"`
	Engagement  float64 `json:"engagement"`
}

// StorageConfig controls the optional reputation/decision store.
//
// Driver values:
//   - "memory": in-process only (default when the block is omitted)
//   - "sqlite": SQLite database file
type StorageConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path,omitempty"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // Go duration string (sqlite)
}
