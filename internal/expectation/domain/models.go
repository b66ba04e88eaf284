package domain

import (
	"time"

	"github.com/shopspring/decimal"

	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	"github.com/platefull/weekplan/internal/snapshot"
)

// AnyCategory marks an expected order whose configuration shape does
// not pin a meal category. Reconciliation treats it as matching any
// persisted category in the same slot.
const AnyCategory = "__any_meal__"

// BoxesCategory keys standing box orders, which have no delivery date
// and reconcile on client identity alone.
const BoxesCategory = "Boxes"

// LineItem is one priced item row of an expected order.
type LineItem struct {
	ItemID    string
	Quantity  int
	UnitPrice decimal.Decimal
	Note      string
}

func (li LineItem) Subtotal() decimal.Decimal {
	return li.UnitPrice.Mul(decimal.NewFromInt(int64(li.Quantity)))
}

// ExpectedOrder is one delivery the engine believes should exist for
// the checked week, derived from a client's configuration as of the
// week's cutoff.
type ExpectedOrder struct {
	ClientID    string
	ClientName  string
	ServiceType clientdomain.ServiceType
	VendorID    string

	// DeliveryDate is zero for box orders.
	DeliveryDate time.Time
	Category     string

	Items      []LineItem
	Total      decimal.Decimal
	TotalItems int

	// Notes and CaseID come straight off the client's configuration.
	Notes  string
	CaseID string

	ConfigSource    snapshot.Source
	ConfigTimestamp *time.Time
}

// HasDate reports whether the expectation is pinned to a calendar day.
func (e ExpectedOrder) HasDate() bool {
	return !e.DeliveryDate.IsZero()
}
