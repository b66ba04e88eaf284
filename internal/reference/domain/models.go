package domain

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Vendor is a delivery vendor with its configured delivery day names, in the
// operator's preferred order.
type Vendor struct {
	ID           string                      `gorm:"primaryKey" json:"id"`
	Name         string                      `gorm:"not null" json:"name"`
	Active       bool                        `gorm:"column:is_active;not null;default:true" json:"active"`
	DeliveryDays datatypes.JSONSlice[string] `gorm:"column:delivery_days" json:"delivery_days"`
}

func (Vendor) TableName() string { return "vendors" }

// MealCategory and ItemCategory are the two parallel category tables. Both
// carry a canonical category key (e.g. "Breakfast", "Lunch") and are unioned
// into one directory.
type MealCategory struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `json:"name"`
	CategoryKey string `gorm:"column:category_key" json:"category_key"`
	Active      *bool  `gorm:"column:is_active" json:"active,omitempty"`
}

func (MealCategory) TableName() string { return "meal_categories" }

type ItemCategory struct {
	ID          string `gorm:"primaryKey" json:"id"`
	Name        string `json:"name"`
	CategoryKey string `gorm:"column:category_key" json:"category_key"`
	Active      *bool  `gorm:"column:is_active" json:"active,omitempty"`
}

func (ItemCategory) TableName() string { return "item_categories" }

// MealItem and MenuItem are the two parallel item catalogs. Legacy menu rows
// may carry their price in Value instead of UnitPrice.
type MealItem struct {
	ID         string          `gorm:"primaryKey" json:"id"`
	CategoryID string          `gorm:"column:category_id" json:"category_id"`
	UnitPrice  decimal.Decimal `gorm:"column:price_each;type:numeric" json:"unit_price"`
	Active     bool            `gorm:"column:is_active;not null;default:true" json:"active"`
}

func (MealItem) TableName() string { return "meal_items" }

type MenuItem struct {
	ID         string           `gorm:"primaryKey" json:"id"`
	VendorID   string           `gorm:"column:vendor_id" json:"vendor_id"`
	CategoryID string           `gorm:"column:category_id" json:"category_id"`
	UnitPrice  *decimal.Decimal `gorm:"column:price_each;type:numeric" json:"unit_price,omitempty"`
	Value      *decimal.Decimal `gorm:"column:value;type:numeric" json:"value,omitempty"`
	Active     bool             `gorm:"column:is_active;not null;default:true" json:"active"`
}

func (MenuItem) TableName() string { return "menu_items" }

// ClientStatus gates whether clients in that status receive deliveries.
type ClientStatus struct {
	ID                string `gorm:"primaryKey" json:"id"`
	Name              string `json:"name"`
	DeliveriesAllowed bool   `gorm:"column:deliveries_allowed;not null;default:false" json:"deliveries_allowed"`
}

func (ClientStatus) TableName() string { return "client_statuses" }

// Repository loads the reference tables in one shot.
type Repository interface {
	LoadDirectories(ctx context.Context) (*Directories, error)
}
