package app

import (
	"context"

	"showrunner/internal/config"
	logx "showrunner/pkg/logx"
)

// reloadLoop applies validated config changes while the show is live.
// Logging, scoring and pacing parameters apply hot; storage and speaker
// identity changes need a restart and only get a warning.
func (a *App) reloadLoop(ctx context.Context) error {
	sub := a.cfgm.Subscribe(8)
	defer a.cfgm.Unsubscribe(sub)

	last := a.cfgm.Get()
	for {
		select {
		case <-ctx.Done():
			return nil
		case cfg, ok := <-sub:
			if !ok {
				return nil
			}
			// Coalesce bursts: only the newest config matters.
			for {
				select {
				case newer := <-sub:
					if newer != nil {
						cfg = newer
					}
					continue
				default:
				}
				break
			}
			a.applyConfig(last, cfg)
			last = cfg
		}
	}
}

func (a *App) applyConfig(prev, cfg *config.Config) {
	a.logs.Apply(logx.Config{
		Level:   cfg.Logging.Level,
		Console: cfg.Logging.Console,
		File: logx.FileConfig{
			Enabled: cfg.Logging.File.Enabled,
			Path:    cfg.Logging.File.Path,
		},
	})

	if evalCfg, err := mapEvaluatorConfig(cfg); err != nil {
		a.log.Warn("pitch config not applied", logx.Err(err))
	} else {
		a.eval.Apply(evalCfg)
	}

	if dirCfg, err := mapDirectorConfig(cfg); err != nil {
		a.log.Warn("script config not applied", logx.Err(err))
	} else {
		a.director.Apply(dirCfg)
	}

	if stageCfg, err := mapStageConfig(cfg); err != nil {
		a.log.Warn("stage config not applied", logx.Err(err))
	} else {
		a.stage.Apply(stageCfg)
	}

	if prev != nil {
		if storageChanged(prev, cfg) {
			a.log.Warn("storage config changed; restart required to take effect")
		}
		if prev.Show.SpeakerA.ID != cfg.Show.SpeakerA.ID ||
			prev.Show.SpeakerB.ID != cfg.Show.SpeakerB.ID {
			a.log.Warn("speaker identities changed; restart required to take effect")
		}
	}

	a.log.Info("config applied")
}

func storageChanged(prev, cfg *config.Config) bool {
	switch {
	case prev.Storage == nil && cfg.Storage == nil:
		return false
	case prev.Storage == nil || cfg.Storage == nil:
		return true
	default:
		return *prev.Storage != *cfg.Storage
	}
}
