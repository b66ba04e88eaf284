package expectation

import (
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/expectation/service"
)

var Module = fx.Module("expectation.service",
	fx.Provide(service.NewDeriver),
)
