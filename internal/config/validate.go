package config

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const weightEpsilon = 1e-6

// Validate checks cross-field invariants that the strict decoder cannot.
//
// It is used both at startup and as the Watch() validator, so a bad edit to a
// live config file never reaches running services.
func (c *Config) Validate() error {
	a := strings.TrimSpace(c.Show.SpeakerA.ID)
	b := strings.TrimSpace(c.Show.SpeakerB.ID)
	if a == "" || b == "" {
		return fmt.Errorf("show: speaker_a.id and speaker_b.id are required")
	}
	if a == b {
		return fmt.Errorf("show: speaker ids must differ")
	}

	switch strings.TrimSpace(c.Generation.Backend) {
	case "", "openai", "scripted":
	default:
		return fmt.Errorf("generation.backend: unknown backend %q", c.Generation.Backend)
	}

	genTimeout, err := ParseDurationOrDefault("generation.timeout", c.Generation.Timeout, 6*time.Second)
	if err != nil {
		return err
	}
	if _, err := ParseDurationField("generation.rating_timeout", c.Generation.RatingTimeout); err != nil {
		return err
	}
	if c.Generation.RetryMax < 0 {
		return fmt.Errorf("generation.retry_max: must be >= 0")
	}

	recovery, err := ParseDurationOrDefault("show.recovery_window", c.Show.RecoveryWindow, 10*time.Second)
	if err != nil {
		return err
	}
	// The stall-recovery window must outlast a generation attempt, otherwise
	// recovery can fire while a legitimate turn is still being produced.
	if recovery <= genTimeout {
		return fmt.Errorf("show.recovery_window (%s) must be larger than generation.timeout (%s)", recovery, genTimeout)
	}
	if _, err := ParseDurationField("show.turn_gap", c.Show.TurnGap); err != nil {
		return err
	}
	if c.Show.ContinuitySize < 0 || c.Show.ContinuitySize > 8 {
		return fmt.Errorf("show.continuity_size: must be in [0,8]")
	}

	if w := c.Pitch.Weights; w != nil {
		for name, v := range map[string]float64{
			"reputation":  w.Reputation,
			"creativity":  w.Creativity,
			"feasibility": w.Feasibility,
			"market":      w.Market,
			"engagement":  w.Engagement,
		} {
			if v < 0 {
				return fmt.Errorf("pitch.weights.%s: must be >= 0", name)
			}
		}
		sum := w.Reputation + w.Creativity + w.Feasibility + w.Market + w.Engagement
		if math.Abs(sum-1.0) > weightEpsilon {
			return fmt.Errorf("pitch.weights: must sum to 1.0 (got %.4f)", sum)
		}
	}
	if c.Pitch.Threshold < 0 || c.Pitch.Threshold > 100 {
		return fmt.Errorf("pitch.threshold: must be in [0,100]")
	}

	if s := c.Storage; s != nil {
		switch strings.TrimSpace(strings.ToLower(s.Driver)) {
		case "", "none", "memory", "sqlite":
		default:
			return fmt.Errorf("storage.driver: unknown driver %q", s.Driver)
		}
		if _, err := ParseDurationField("storage.busy_timeout", s.BusyTimeout); err != nil {
			return err
		}
	}

	return nil
}
