package cutoff

import (
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/config"
)

var Module = fx.Module("cutoff.policy",
	fx.Provide(func(cfg config.Config) (Policy, error) {
		return NewPolicy(cfg.CutoffDay, cfg.CutoffTime)
	}),
)
