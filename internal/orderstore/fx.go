package orderstore

import (
	"go.uber.org/fx"

	"github.com/platefull/weekplan/internal/orderstore/repository"
)

var Module = fx.Module("orderstore.repository",
	fx.Provide(repository.NewStore),
)
