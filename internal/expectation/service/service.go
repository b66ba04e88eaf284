package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/platefull/weekplan/internal/calendar"
	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	"github.com/platefull/weekplan/internal/clock"
	"github.com/platefull/weekplan/internal/expectation/domain"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
	"github.com/platefull/weekplan/internal/schedule"
	"github.com/platefull/weekplan/internal/snapshot"
)

// deriveWorkers bounds the fan-out across clients. Derivation is pure
// in-memory work per client, a small pool keeps large rosters fast
// without unbounded goroutines.
const deriveWorkers = 8

// Deriver turns client configurations into the expected orders of a
// target week.
type Deriver struct {
	logger  *zap.Logger
	clients clientdomain.Repository
	refs    refdomain.Repository
	clock   clock.Clock
}

func NewDeriver(
	logger *zap.Logger,
	clients clientdomain.Repository,
	refs refdomain.Repository,
	clk clock.Clock,
) *Deriver {
	return &Deriver{
		logger:  logger.Named("expectation.deriver"),
		clients: clients,
		refs:    refs,
		clock:   clk,
	}
}

// DeriveWeek computes every expected order for the week containing
// weekStart, using each client's configuration as of cutoff.
func (d *Deriver) DeriveWeek(ctx context.Context, weekStart, cutoff time.Time) ([]domain.ExpectedOrder, error) {
	dirs, err := d.refs.LoadDirectories(ctx)
	if err != nil {
		return nil, err
	}

	clients, err := d.clients.List(ctx)
	if err != nil {
		return nil, err
	}

	ws := calendar.WeekStart(weekStart)
	today := calendar.StartOfDay(d.clock.Now())

	jobs := make(chan clientdomain.Client)
	var mu sync.Mutex
	var expected []domain.ExpectedOrder

	var wg sync.WaitGroup
	for i := 0; i < deriveWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				orders := d.deriveClient(c, dirs, ws, cutoff, today)
				if len(orders) == 0 {
					continue
				}
				mu.Lock()
				expected = append(expected, orders...)
				mu.Unlock()
			}
		}()
	}

	for _, c := range clients {
		if c.ParentClientID != nil && *c.ParentClientID != "" {
			// Dependents derive through their parent's configuration.
			continue
		}
		select {
		case jobs <- c:
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return nil, ctx.Err()
		}
	}
	close(jobs)
	wg.Wait()

	expected = dedupeBoxes(expected)
	sortExpected(expected)

	d.logger.Debug("derived expected orders",
		zap.Time("week_start", ws),
		zap.Int("clients", len(clients)),
		zap.Int("expected", len(expected)),
	)
	return expected, nil
}

func (d *Deriver) deriveClient(
	c clientdomain.Client,
	dirs *refdomain.Directories,
	weekStart, cutoff, today time.Time,
) []domain.ExpectedOrder {
	if !eligible(c, dirs, today) {
		return nil
	}

	sel, ok := snapshot.Select(c, cutoff)
	if !ok {
		return nil
	}

	base := domain.ExpectedOrder{
		ClientID:        c.EffectiveID(),
		ClientName:      c.FullName,
		ServiceType:     sel.Config.ServiceType,
		Notes:           sel.Config.Notes,
		CaseID:          sel.Config.CaseID,
		ConfigSource:    sel.Source,
		ConfigTimestamp: sel.Timestamp,
	}

	if sel.Config.ServiceType == clientdomain.ServiceBoxes {
		return d.deriveBox(base, sel.Config)
	}

	// Shapes expand by structure, a Food client can carry category
	// groups, day keyed selections and a flat vendor list at once.
	var out []domain.ExpectedOrder
	out = append(out, d.deriveCategories(base, sel.Config, dirs, weekStart)...)
	out = append(out, d.deriveDays(base, sel.Config, dirs, weekStart)...)
	out = append(out, d.deriveVendors(base, sel.Config, dirs, weekStart)...)
	return out
}

// eligible filters clients whose status blocks deliveries or whose
// program expired before today. An unknown status id blocks, only a
// status explicitly allowing deliveries lets the client through.
func eligible(c clientdomain.Client, dirs *refdomain.Directories, today time.Time) bool {
	st, ok := dirs.Status(c.StatusID)
	if !ok || !st.DeliveriesAllowed {
		return false
	}
	if c.ExpirationDate != nil && c.ExpirationDate.Before(today) {
		return false
	}
	return true
}

// deriveCategories handles category keyed plans: one expectation per
// configured category, dated on the vendor's first delivery day of the
// week. A vendor that is unknown, inactive or without a delivery day
// that week yields nothing for its category, and so does a group whose
// items all fail to resolve.
func (d *Deriver) deriveCategories(
	base domain.ExpectedOrder,
	cfg *clientdomain.OrderConfig,
	dirs *refdomain.Directories,
	weekStart time.Time,
) []domain.ExpectedOrder {
	var out []domain.ExpectedOrder
	for rawKey, sel := range cfg.CategorySelections {
		vendor, ok := dirs.Vendor(sel.VendorID)
		if !ok || !vendor.Active {
			d.logger.Debug("category selection names unknown or inactive vendor",
				zap.String("client_id", base.ClientID),
				zap.String("vendor_id", sel.VendorID),
			)
			continue
		}
		date, ok := schedule.FirstDeliveryDateInWeek(weekStart, vendor.DeliveryDays)
		if !ok {
			continue
		}

		items, total, count := priceItems(sel, dirs)
		if count == 0 {
			continue
		}

		o := base
		o.ServiceType = clientdomain.ServiceMeal
		o.VendorID = sel.VendorID
		o.Category = dirs.CanonicalCategory(rawKey)
		o.DeliveryDate = date
		o.Items, o.Total, o.TotalItems = items, total, count
		out = append(out, o)
	}
	return out
}

// deriveDays handles day keyed plans: one expectation per (day, vendor)
// pair. These carry no category of their own and are emitted even with
// an empty item list.
func (d *Deriver) deriveDays(
	base domain.ExpectedOrder,
	cfg *clientdomain.OrderConfig,
	dirs *refdomain.Directories,
	weekStart time.Time,
) []domain.ExpectedOrder {
	var out []domain.ExpectedOrder
	for day, daySel := range cfg.DayOrders {
		date, ok := schedule.OccurrenceInWeek(weekStart, day)
		if !ok {
			continue
		}
		for _, sel := range daySel.VendorSelections {
			if sel.VendorID == "" || !dirs.VendorActive(sel.VendorID) {
				continue
			}
			o := base
			o.VendorID = sel.VendorID
			o.Category = domain.AnyCategory
			o.DeliveryDate = date
			o.Items, o.Total, o.TotalItems = priceItems(sel, dirs)
			out = append(out, o)
		}
	}
	return out
}

// deriveVendors handles the flat vendor list, dated on each vendor's
// first delivery day of the week.
func (d *Deriver) deriveVendors(
	base domain.ExpectedOrder,
	cfg *clientdomain.OrderConfig,
	dirs *refdomain.Directories,
	weekStart time.Time,
) []domain.ExpectedOrder {
	var out []domain.ExpectedOrder
	for _, sel := range cfg.VendorSelections {
		vendor, ok := dirs.Vendor(sel.VendorID)
		if !ok || !vendor.Active {
			continue
		}
		date, ok := schedule.FirstDeliveryDateInWeek(weekStart, vendor.DeliveryDays)
		if !ok {
			continue
		}
		o := base
		o.VendorID = sel.VendorID
		o.Category = domain.AnyCategory
		o.DeliveryDate = date
		o.Items, o.Total, o.TotalItems = priceItems(sel, dirs)
		out = append(out, o)
	}
	return out
}

// deriveBox emits the single standing box expectation. Box orders have
// no delivery date, one exists per client regardless of week.
func (d *Deriver) deriveBox(base domain.ExpectedOrder, cfg *clientdomain.OrderConfig) []domain.ExpectedOrder {
	if cfg.Box == nil {
		return nil
	}
	o := base
	o.VendorID = cfg.Box.VendorID
	o.Category = domain.BoxesCategory
	if cfg.Box.BoxTypeID != "" {
		o.Items = []domain.LineItem{{ItemID: cfg.Box.BoxTypeID, Quantity: cfg.Box.Quantity}}
		o.TotalItems = cfg.Box.Quantity
	}
	o.Total = decimal.Zero
	return []domain.ExpectedOrder{o}
}

// priceItems resolves quantities against the catalogs. Item ids found
// in neither catalog are dropped from the payload.
func priceItems(sel clientdomain.VendorSelection, dirs *refdomain.Directories) ([]domain.LineItem, decimal.Decimal, int) {
	if len(sel.Items) == 0 {
		return nil, decimal.Zero, 0
	}

	ids := make([]string, 0, len(sel.Items))
	for id := range sel.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	total := decimal.Zero
	count := 0
	var lines []domain.LineItem
	for _, id := range ids {
		resolved, ok := dirs.ResolveItem(id)
		if !ok {
			continue
		}
		li := domain.LineItem{
			ItemID:    id,
			Quantity:  sel.Items[id],
			UnitPrice: resolved.UnitPrice,
			Note:      sel.ItemNotes[id],
		}
		lines = append(lines, li)
		total = total.Add(li.Subtotal())
		count += li.Quantity
	}
	return lines, total, count
}

// dedupeBoxes keeps one box expectation per client. Sub-accounts of
// the same household collapse onto the parent id before this runs, so
// duplicates here are genuine.
func dedupeBoxes(orders []domain.ExpectedOrder) []domain.ExpectedOrder {
	seen := make(map[string]bool)
	out := orders[:0]
	for _, o := range orders {
		if o.Category == domain.BoxesCategory {
			if seen[o.ClientID] {
				continue
			}
			seen[o.ClientID] = true
		}
		out = append(out, o)
	}
	return out
}

func sortExpected(orders []domain.ExpectedOrder) {
	sort.SliceStable(orders, func(i, j int) bool {
		a, b := orders[i], orders[j]
		if a.ClientID != b.ClientID {
			return a.ClientID < b.ClientID
		}
		if !a.DeliveryDate.Equal(b.DeliveryDate) {
			return a.DeliveryDate.Before(b.DeliveryDate)
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return a.VendorID < b.VendorID
	})
}
