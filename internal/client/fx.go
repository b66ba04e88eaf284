package client

import (
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/client/repository"
)

var Module = fx.Module("client.repository",
	fx.Provide(repository.NewRepository),
)
