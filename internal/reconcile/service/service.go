package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/platefull/weekplan/internal/calendar"
	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	"github.com/platefull/weekplan/internal/cutoff"
	expdomain "github.com/platefull/weekplan/internal/expectation/domain"
	"github.com/platefull/weekplan/internal/observability/metrics"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
	"github.com/platefull/weekplan/internal/reconcile/domain"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
)

// ExpectedDeriver yields the expected orders of a week as of a cutoff.
type ExpectedDeriver interface {
	DeriveWeek(ctx context.Context, weekStart, cutoff time.Time) ([]expdomain.ExpectedOrder, error)
}

// Reconciler checks a week's persisted orders against derived
// expectations and backfills the gaps.
type Reconciler struct {
	logger  *zap.Logger
	policy  cutoff.Policy
	deriver ExpectedDeriver
	clients clientdomain.Repository
	refs    refdomain.Repository
	orders  orderdomain.Store
	metrics *metrics.Metrics
}

func NewReconciler(
	logger *zap.Logger,
	policy cutoff.Policy,
	deriver ExpectedDeriver,
	clients clientdomain.Repository,
	refs refdomain.Repository,
	orders orderdomain.Store,
	m *metrics.Metrics,
) *Reconciler {
	return &Reconciler{
		logger:  logger.Named("reconcile"),
		policy:  policy,
		deriver: deriver,
		clients: clients,
		refs:    refs,
		orders:  orders,
		metrics: m,
	}
}

// CheckWeek derives the expected orders of the week containing
// weekStart and reports which of them have no persisted counterpart.
func (r *Reconciler) CheckWeek(ctx context.Context, weekStart time.Time) (*domain.Report, error) {
	started := time.Now()
	ws := calendar.WeekStart(weekStart)
	cut := cutoff.GoverningCutoff(r.policy, ws)

	expected, err := r.deriver.DeriveWeek(ctx, ws, cut)
	if err != nil {
		return nil, err
	}

	existing, err := r.orders.ListWeek(ctx, ws)
	if err != nil {
		return nil, err
	}

	dirs, err := r.refs.LoadDirectories(ctx)
	if err != nil {
		return nil, err
	}

	rollup, err := r.parentRollup(ctx)
	if err != nil {
		return nil, err
	}

	outcome := match(expected, existing, dirs, rollup)

	matched := make([]domain.MatchedOrder, 0, len(outcome.matched))
	matchedIDs := make(map[string]struct{}, len(outcome.matched))
	for _, m := range outcome.matched {
		mo := domain.MatchedOrder{
			ExpectedOrder: m.expected,
			OrderID:       m.entry.order.ID,
			DisplayNumber: m.entry.order.DisplayNumber,
		}
		// The persisted order's totals win over the derived ones.
		mo.Total = m.entry.order.Total
		mo.TotalItems = m.entry.order.TotalItems
		matched = append(matched, mo)
		matchedIDs[m.entry.order.ID] = struct{}{}
	}

	report := &domain.Report{
		WeekStart:        ws,
		WeekEnd:          calendar.WeekEnd(ws),
		Cutoff:           cut,
		ExpectedCount:    len(expected),
		ExistingCount:    len(existing),
		Missing:          outcome.missing,
		Matched:          matched,
		Expected:         expected,
		ExistingByClient: groupByClient(existing, rollup, matchedIDs),
	}

	r.metrics.RecordCheck(len(outcome.missing), time.Since(started))
	r.logger.Info("week checked",
		zap.Time("week_start", ws),
		zap.Int("expected", len(expected)),
		zap.Int("existing", len(existing)),
		zap.Int("missing", len(outcome.missing)),
		zap.Int("matched", len(matched)),
	)
	return report, nil
}

// BackfillMissing re-checks the week and inserts an order for every
// expectation still missing at insert time. The re-check means a
// concurrent insert between report and backfill is never duplicated.
func (r *Reconciler) BackfillMissing(ctx context.Context, weekStart time.Time) (*domain.BackfillResult, error) {
	report, err := r.CheckWeek(ctx, weekStart)
	if err != nil {
		return nil, err
	}

	result := &domain.BackfillResult{
		WeekStart: report.WeekStart,
		Missing:   len(report.Missing),
	}
	if len(report.Missing) == 0 {
		return result, nil
	}

	orders := make([]orderdomain.Order, 0, len(report.Missing))
	for _, e := range report.Missing {
		orders = append(orders, orderFromExpected(e))
	}

	outcome, err := r.orders.CreateMissing(ctx, orders)
	if err != nil {
		return nil, err
	}
	result.Created = outcome.Created
	result.Failed = outcome.Failed
	r.metrics.RecordBackfill(outcome.Created, len(outcome.Failed))

	r.logger.Info("week backfilled",
		zap.Time("week_start", report.WeekStart),
		zap.Int("missing", result.Missing),
		zap.Int("created", result.Created),
		zap.Int("failed", len(result.Failed)),
	)
	return result, nil
}

// parentRollup maps every client id to its effective household id.
func (r *Reconciler) parentRollup(ctx context.Context) (map[string]string, error) {
	clients, err := r.clients.List(ctx)
	if err != nil {
		return nil, err
	}
	rollup := make(map[string]string, len(clients))
	for _, c := range clients {
		rollup[c.ID] = c.EffectiveID()
	}
	return rollup, nil
}

func effectiveID(rollup map[string]string, id string) string {
	if eff, ok := rollup[id]; ok {
		return eff
	}
	return id
}

func groupByClient(
	orders []orderdomain.Order,
	rollup map[string]string,
	matchedIDs map[string]struct{},
) map[string][]domain.ExistingOrder {
	out := make(map[string][]domain.ExistingOrder)
	for _, o := range orders {
		id := effectiveID(rollup, o.ClientID)
		status := domain.ExistingExtra
		if _, ok := matchedIDs[o.ID]; ok {
			status = domain.ExistingMatched
		}
		out[id] = append(out[id], domain.ExistingOrder{Order: o, Status: status})
	}
	return out
}

func orderFromExpected(e expdomain.ExpectedOrder) orderdomain.Order {
	category := e.Category
	if category == expdomain.AnyCategory {
		category = refdomain.DefaultCategoryKey
	}

	o := orderdomain.Order{
		ClientID:    e.ClientID,
		ClientName:  e.ClientName,
		VendorID:    e.VendorID,
		ServiceType: string(e.ServiceType),
		Category:    category,
		Status:      orderdomain.StatusPending,
		Source:      orderdomain.SourceBackfill,
		Total:       e.Total,
		TotalItems:  e.TotalItems,
	}
	if e.HasDate() {
		d := e.DeliveryDate
		o.DeliveryDate = &d
	}
	for _, li := range e.Items {
		o.Items = append(o.Items, orderdomain.OrderItem{
			ItemID:    li.ItemID,
			Quantity:  li.Quantity,
			UnitPrice: li.UnitPrice,
			Note:      li.Note,
		})
	}
	return o
}
