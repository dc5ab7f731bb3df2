// Package app wires the broadcast components together and runs the show
// loop. It owns every piece of long-lived state (queue, backlog, continuity
// buffer, reputation store) and hands it to exactly one component each;
// cross-component effects happen only through calls made here or signals on
// the event bus.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"showrunner/internal/config"
	"showrunner/internal/eventbus"
	"showrunner/internal/gen"
	"showrunner/internal/runtime/supervisor"
	"showrunner/internal/show/continuity"
	"showrunner/internal/show/pitch"
	"showrunner/internal/show/schedule"
	"showrunner/internal/show/script"
	"showrunner/internal/show/stage"
	"showrunner/internal/storage"
	logx "showrunner/pkg/logx"
)

type App struct {
	cfgPath string

	cfgm *config.Manager
	sup  *supervisor.Supervisor

	log   logx.Logger
	logs  *logx.Service
	bus   eventbus.Bus
	store storage.Store

	client   gen.Client
	cont     *continuity.Buffer
	sched    *schedule.Service
	backlog  *pitch.Backlog
	eval     *pitch.Evaluator
	director *script.Director
	stage    *stage.Scheduler
}

func NewApp(cfgPath string) (*App, error) {
	cfgm := config.NewManager(cfgPath)
	cfg, err := cfgm.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logSvc, log := logx.New(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})
	log = log.With(logx.String("comp", "app"))

	bus := eventbus.New()

	client, err := buildClient(cfg.Generation)
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(mapStorageConfig(cfg.Storage), log.With(logx.String("comp", "storage")))
	if err != nil {
		return nil, err
	}

	cont := continuity.NewBuffer(cfg.Show.ContinuitySize)

	sched := schedule.New(schedule.Config{
		MinDepth:       cfg.Show.MinQueueDepth,
		SegmentSeconds: cfg.Show.SegmentSeconds,
		DayPartSpec:    cfg.Show.DayPartSpec,
		Timezone:       cfg.Show.Timezone,
	}, log.With(logx.String("comp", "schedule")), bus, nil)

	backlog := pitch.NewBacklog(pitch.BacklogConfig{
		Cap:           cfg.Pitch.BacklogCap,
		RatePerMinute: cfg.Pitch.RatePerMinute,
		MaxTextLen:    cfg.Pitch.MaxTextLen,
	}, log.With(logx.String("comp", "pitch")))

	evalCfg, err := mapEvaluatorConfig(cfg)
	if err != nil {
		return nil, err
	}
	eval := pitch.NewEvaluator(evalCfg, client, store, nil, log.With(logx.String("comp", "pitch")))

	dirCfg, err := mapDirectorConfig(cfg)
	if err != nil {
		return nil, err
	}
	director := script.NewDirector(dirCfg, client, cont, bus, log.With(logx.String("comp", "script")))

	stageCfg, err := mapStageConfig(cfg)
	if err != nil {
		return nil, err
	}
	turns := stage.New(stageCfg, bus, cont, log.With(logx.String("comp", "stage")))

	return &App{
		cfgPath:  cfgPath,
		cfgm:     cfgm,
		log:      log,
		logs:     logSvc,
		bus:      bus,
		store:    store,
		client:   client,
		cont:     cont,
		sched:    sched,
		backlog:  backlog,
		eval:     eval,
		director: director,
		stage:    turns,
	}, nil
}

// Bus exposes the event bus so presentation collaborators can subscribe and
// audience-facing surfaces can publish submissions.
func (a *App) Bus() eventbus.Bus { return a.bus }

// Done is closed when the app context is cancelled (fatal error or Stop).
func (a *App) Done() <-chan struct{} {
	if a.sup == nil {
		ch := make(chan struct{})
		close(ch)
		return ch
	}
	return a.sup.Context().Done()
}

// Err returns the first fatal error observed by the supervisor, if any.
func (a *App) Err() error {
	if a.sup == nil {
		return nil
	}
	return a.sup.Err()
}

func (a *App) Start(ctx context.Context) error {
	a.sup = supervisor.New(ctx,
		supervisor.WithLogger(a.log),
		supervisor.WithCancelOnError(true),
	)

	a.cfgm.SetLogger(a.log.With(logx.String("comp", "config")))
	a.cfgm.SetValidator(func(_ context.Context, cfg *config.Config) error {
		if err := cfg.Validate(); err != nil {
			return err
		}
		if _, err := mapEvaluatorConfig(cfg); err != nil {
			return err
		}
		if _, err := mapDirectorConfig(cfg); err != nil {
			return err
		}
		if _, err := mapStageConfig(cfg); err != nil {
			return err
		}
		return nil
	})

	if err := a.sched.Start(a.sup.Context()); err != nil {
		return err
	}

	a.sup.Go("show.loop", a.runLoop)
	a.sup.GoRestart("config.watch", func(c context.Context) error {
		return a.cfgm.Watch(c)
	})
	a.sup.Go("config.reload", a.reloadLoop)

	a.log.Info("showrunner started")
	return nil
}

func (a *App) Stop(ctx context.Context) error {
	if a.sup == nil {
		return nil
	}
	a.log.Info("stopping")
	a.sup.Cancel()
	a.stage.Stop()

	stopCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	a.sched.Stop(stopCtx)

	err := a.sup.Wait(stopCtx)
	if cerr := a.store.Close(); cerr != nil {
		a.log.Warn("store close failed", logx.Err(cerr))
	}
	_ = a.logs.Close()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func buildClient(cfg config.GenerationConfig) (gen.Client, error) {
	switch cfg.Backend {
	case "", "scripted":
		return gen.NewScripted(), nil
	case "openai":
		return gen.NewHTTPClient(gen.HTTPConfig{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
		}), nil
	default:
		return nil, fmt.Errorf("generation.backend: unknown %q", cfg.Backend)
	}
}

func mapStorageConfig(sc *config.StorageConfig) storage.Config {
	if sc == nil {
		return storage.Config{}
	}
	busy, _ := config.ParseDurationOrDefault("storage.busy_timeout", sc.BusyTimeout, 0)
	return storage.Config{
		Driver:      sc.Driver,
		Path:        sc.Path,
		BusyTimeout: busy,
	}
}

func mapEvaluatorConfig(cfg *config.Config) (pitch.EvaluatorConfig, error) {
	ratingTimeout, err := config.ParseDurationOrDefault(
		"generation.rating_timeout", cfg.Generation.RatingTimeout, pitch.DefaultRatingTimeout)
	if err != nil {
		return pitch.EvaluatorConfig{}, err
	}
	out := pitch.EvaluatorConfig{
		Threshold:     cfg.Pitch.Threshold,
		RatingTimeout: ratingTimeout,
	}
	if w := cfg.Pitch.Weights; w != nil {
		out.Weights = pitch.Weights{
			Reputation:  w.Reputation,
			Creativity:  w.Creativity,
			Feasibility: w.Feasibility,
			Market:      w.Market,
			Engagement:  w.Engagement,
		}
	}
	return out, nil
}

func mapDirectorConfig(cfg *config.Config) (script.Config, error) {
	timeout, err := config.ParseDurationOrDefault(
		"generation.timeout", cfg.Generation.Timeout, script.DefaultTimeout)
	if err != nil {
		return script.Config{}, err
	}
	return script.Config{
		SpeakerA: mapSpeaker(cfg.Show.SpeakerA),
		SpeakerB: mapSpeaker(cfg.Show.SpeakerB),
		Timeout:  timeout,
		RetryMax: cfg.Generation.RetryMax,
	}, nil
}

func mapSpeaker(s config.Speaker) script.Speaker {
	return script.Speaker{
		ID:         s.ID,
		Name:       s.Name,
		Persona:    s.Persona,
		StanceBias: s.StanceBias,
	}
}

func mapStageConfig(cfg *config.Config) (stage.Config, error) {
	gap, err := config.ParseDurationOrDefault("show.turn_gap", cfg.Show.TurnGap, stage.DefaultTurnGap)
	if err != nil {
		return stage.Config{}, err
	}
	recovery, err := config.ParseDurationOrDefault(
		"show.recovery_window", cfg.Show.RecoveryWindow, stage.DefaultRecoveryWindow)
	if err != nil {
		return stage.Config{}, err
	}
	return stage.Config{
		SpeakerA:       cfg.Show.SpeakerA.ID,
		SpeakerB:       cfg.Show.SpeakerB.ID,
		TurnGap:        gap,
		RecoveryWindow: recovery,
	}, nil
}
