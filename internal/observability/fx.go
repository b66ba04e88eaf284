package observability

import (
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/observability/metrics"
)

var Module = fx.Module("observability",
	fx.Provide(metrics.New),
)
