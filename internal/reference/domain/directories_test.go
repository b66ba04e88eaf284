package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func price(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func buildDirectories() *Directories {
	menuPrice := price("8.00")
	legacyValue := price("6.50")
	return NewDirectories(
		[]Vendor{{ID: "vendor-1", Name: "Green Kitchen", Active: true}},
		[]MealCategory{
			{ID: "cat-lunch", Name: "Lunch Plan", CategoryKey: "Lunch"},
			{ID: "cat-breakfast", Name: "Breakfast Plan", CategoryKey: "Breakfast", Active: boolPtr(true)},
			{ID: "cat-retired", Name: "Snack Plan", CategoryKey: "Snack", Active: boolPtr(false)},
		},
		[]ItemCategory{
			{ID: "icat-dinner", Name: "Dinner Menu", CategoryKey: "Dinner"},
		},
		[]MealItem{
			{ID: "Meal-A", CategoryID: "cat-lunch", UnitPrice: price("12.00"), Active: true},
		},
		[]MenuItem{
			{ID: "menu-a", VendorID: "vendor-1", CategoryID: "icat-dinner", UnitPrice: &menuPrice, Active: true},
			{ID: "menu-legacy", VendorID: "vendor-1", CategoryID: "icat-dinner", Value: &legacyValue, Active: true},
			{ID: "menu-free", VendorID: "vendor-1", CategoryID: "icat-dinner", Active: true},
		},
		[]ClientStatus{{ID: "status-active", Name: "Active", DeliveriesAllowed: true}},
	)
}

func TestResolveItemMealCatalogWins(t *testing.T) {
	d := buildDirectories()

	item, ok := d.ResolveItem("Meal-A")
	require.True(t, ok)
	assert.Equal(t, CatalogMeal, item.Source)
	assert.True(t, item.UnitPrice.Equal(price("12.00")))
}

func TestResolveItemCaseInsensitiveFallback(t *testing.T) {
	d := buildDirectories()

	item, ok := d.ResolveItem("meal-a")
	require.True(t, ok)
	assert.Equal(t, CatalogMeal, item.Source)
}

func TestResolveItemMenuPriceFallsBackToValue(t *testing.T) {
	d := buildDirectories()

	item, ok := d.ResolveItem("menu-legacy")
	require.True(t, ok)
	assert.Equal(t, CatalogMenu, item.Source)
	assert.True(t, item.UnitPrice.Equal(price("6.50")))

	// Neither price column set: price is zero, not an error.
	item, ok = d.ResolveItem("menu-free")
	require.True(t, ok)
	assert.True(t, item.UnitPrice.IsZero())
}

func TestResolveItemUnknown(t *testing.T) {
	_, ok := buildDirectories().ResolveItem("nope")
	assert.False(t, ok)
}

func TestCanonicalCategory(t *testing.T) {
	d := buildDirectories()

	assert.Equal(t, "Lunch", d.CanonicalCategory("Lunch"))
	assert.Equal(t, "Lunch", d.CanonicalCategory("Lunch Plan"))
	// Legacy keys carry a suffix after an underscore.
	assert.Equal(t, "Lunch", d.CanonicalCategory("Lunch_2024"))
	// Unknown keys pass through by prefix rather than vanishing.
	assert.Equal(t, "Brunch", d.CanonicalCategory("Brunch_old"))
}

func TestCategoryForItem(t *testing.T) {
	d := buildDirectories()

	key, ok := d.CategoryForItem("Meal-A")
	require.True(t, ok)
	assert.Equal(t, "Lunch", key)

	key, ok = d.CategoryForItem("menu-a")
	require.True(t, ok)
	assert.Equal(t, "Dinner", key)

	_, ok = d.CategoryForItem("nope")
	assert.False(t, ok)
}

func TestActiveCategoryUnion(t *testing.T) {
	d := buildDirectories()

	assert.True(t, d.CategoryActive("Lunch"))
	assert.True(t, d.CategoryActive("Breakfast"))
	assert.True(t, d.CategoryActive("Dinner"))
	assert.False(t, d.CategoryActive("Snack"))

	assert.Equal(t, []string{"Breakfast", "Dinner", "Lunch"}, d.ActiveCategoryKeys())
}

func TestAllCategoriesActiveWhenNoneFlagged(t *testing.T) {
	d := NewDirectories(
		nil,
		[]MealCategory{{ID: "cat-1", Name: "Lunch Plan", CategoryKey: "Lunch", Active: boolPtr(false)}},
		[]ItemCategory{{ID: "icat-1", Name: "Dinner Menu", CategoryKey: "Dinner", Active: boolPtr(false)}},
		nil, nil, nil,
	)

	// Every known category flagged inactive means the flags are not
	// trustworthy; treat them all as active instead of suppressing the
	// whole program.
	assert.True(t, d.CategoryActive("Lunch"))
	assert.True(t, d.CategoryActive("Dinner"))
}
