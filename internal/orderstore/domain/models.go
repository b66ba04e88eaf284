package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Order is a persisted delivery order. The engine only ever reads
// orders and inserts missing ones, it never updates or deletes rows it
// did not create.
type Order struct {
	ID            string `gorm:"primaryKey"`
	DisplayNumber int64  `gorm:"column:display_number;uniqueIndex"`

	ClientID   string `gorm:"column:client_id;index"`
	ClientName string `gorm:"column:client_name"`
	VendorID   string `gorm:"column:vendor_id"`

	ServiceType string `gorm:"column:service_type"`
	Category    string `gorm:"column:meal_type"`

	// DeliveryDate is null for standing box orders.
	DeliveryDate *time.Time `gorm:"column:delivery_date;index"`

	Status     string          `gorm:"column:status"`
	Total      decimal.Decimal `gorm:"column:total;type:numeric"`
	TotalItems int             `gorm:"column:total_items"`
	Source     string          `gorm:"column:source"`

	Items []OrderItem `gorm:"foreignKey:OrderID"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Order) TableName() string { return "orders" }

// OrderItem is one item row of a persisted order.
type OrderItem struct {
	ID        string          `gorm:"primaryKey"`
	OrderID   string          `gorm:"column:order_id;index"`
	ItemID    string          `gorm:"column:item_id"`
	Quantity  int             `gorm:"column:quantity"`
	UnitPrice decimal.Decimal `gorm:"column:unit_price;type:numeric"`
	Note      string          `gorm:"column:note"`
}

func (OrderItem) TableName() string { return "order_items" }

// StatusPending marks orders the engine created itself.
const StatusPending = "pending"

// SourceBackfill marks orders inserted by reconciliation backfill, so
// operators can tell them from orders placed through the regular flow.
const SourceBackfill = "backfill"

// CreateOutcome reports a CreateMissing run. Failures carry the client
// id of each order that could not be inserted, one bad row never
// aborts the rest.
type CreateOutcome struct {
	Created int
	Failed  []string
}

// Store reads and inserts persisted orders.
type Store interface {
	// ListWeek returns all orders whose delivery date falls in the
	// week containing weekStart, plus undated box orders.
	ListWeek(ctx context.Context, weekStart time.Time) ([]Order, error)

	// CreateMissing inserts the given orders, isolating per-order
	// failures.
	CreateMissing(ctx context.Context, orders []Order) (CreateOutcome, error)
}
