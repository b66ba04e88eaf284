package reference

import (
	"time"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/platefull/weekplan/internal/config"
	"github.com/platefull/weekplan/internal/reference/domain"
	"github.com/platefull/weekplan/internal/reference/repository"
)

var Module = fx.Module("reference.repository",
	fx.Provide(func(db *gorm.DB, cfg config.Config) domain.Repository {
		ttl := time.Duration(cfg.ReferenceTTLSeconds) * time.Second
		return repository.NewCachedRepository(repository.NewRepository(db), ttl)
	}),
)
