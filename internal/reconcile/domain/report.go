package domain

import (
	"time"

	expdomain "github.com/platefull/weekplan/internal/expectation/domain"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
)

// ExistingStatus tags a persisted order with its reconciliation fate.
type ExistingStatus string

const (
	ExistingMatched ExistingStatus = "matched"
	ExistingExtra   ExistingStatus = "extra"
)

// MatchedOrder pairs an expected order with the persisted order that
// satisfied it. Totals carry the persisted order's values, not the
// derived ones.
type MatchedOrder struct {
	expdomain.ExpectedOrder
	OrderID       string `json:"order_id"`
	DisplayNumber int64  `json:"display_number"`
}

// ExistingOrder is one persisted order of the checked week, tagged
// with whether reconciliation paired it with an expectation.
type ExistingOrder struct {
	orderdomain.Order
	Status ExistingStatus `json:"status"`
}

// Report is the result of checking one week's persisted orders against
// the expected orders derived from client configurations.
type Report struct {
	WeekStart time.Time `json:"week_start"`
	WeekEnd   time.Time `json:"week_end"`

	// Cutoff is the instant whose configuration snapshots governed
	// this week.
	Cutoff time.Time `json:"cutoff"`

	ExpectedCount int `json:"expected_count"`
	ExistingCount int `json:"existing_count"`

	// Missing lists expected orders with no persisted counterpart.
	Missing []expdomain.ExpectedOrder `json:"missing"`

	// Matched lists expected orders together with the persisted order
	// each one consumed, annotated with its display number.
	Matched []MatchedOrder `json:"matched"`

	// Expected carries every derived order with its snapshot
	// provenance, for operators auditing a discrepancy.
	Expected []expdomain.ExpectedOrder `json:"expected"`

	// ExistingByClient groups the week's persisted orders by
	// effective client id, each tagged matched or extra.
	ExistingByClient map[string][]ExistingOrder `json:"existing_by_client"`
}

// BackfillResult reports a backfill run over one week.
type BackfillResult struct {
	WeekStart time.Time `json:"week_start"`
	Missing   int       `json:"missing"`
	Created   int       `json:"created"`
	Failed    []string  `json:"failed,omitempty"`
}
