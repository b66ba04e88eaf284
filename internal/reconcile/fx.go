package reconcile

import (
	"go.uber.org/fx"
	"go.uber.org/zap"

	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	"github.com/platefull/weekplan/internal/cutoff"
	expservice "github.com/platefull/weekplan/internal/expectation/service"
	"github.com/platefull/weekplan/internal/observability/metrics"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
	"github.com/platefull/weekplan/internal/reconcile/service"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
)

var Module = fx.Module("reconcile.service",
	fx.Provide(func(
		logger *zap.Logger,
		policy cutoff.Policy,
		deriver *expservice.Deriver,
		clients clientdomain.Repository,
		refs refdomain.Repository,
		orders orderdomain.Store,
		m *metrics.Metrics,
	) *service.Reconciler {
		return service.NewReconciler(logger, policy, deriver, clients, refs, orders, m)
	}),
)
