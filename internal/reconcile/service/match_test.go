package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	clientdomain "github.com/platefull/weekplan/internal/client/domain"
	expdomain "github.com/platefull/weekplan/internal/expectation/domain"
	orderdomain "github.com/platefull/weekplan/internal/orderstore/domain"
	refdomain "github.com/platefull/weekplan/internal/reference/domain"
)

func matchDirs() *refdomain.Directories {
	p := decimal.NewFromInt(10)
	return refdomain.NewDirectories(
		nil,
		[]refdomain.MealCategory{
			{ID: "cat-lunch", Name: "Lunch", CategoryKey: "Lunch"},
			{ID: "cat-breakfast", Name: "Breakfast", CategoryKey: "Breakfast"},
		},
		nil,
		[]refdomain.MealItem{
			{ID: "meal-breakfast", CategoryID: "cat-breakfast", UnitPrice: p, Active: true},
		},
		nil,
		nil,
	)
}

func day(d int) time.Time {
	return time.Date(2026, 1, d, 0, 0, 0, 0, time.UTC)
}

func expectedMeal(client, category, vendor string, d int) expdomain.ExpectedOrder {
	return expdomain.ExpectedOrder{
		ClientID:     client,
		ServiceType:  clientdomain.ServiceMeal,
		Category:     category,
		VendorID:     vendor,
		DeliveryDate: day(d),
	}
}

func expectedFood(client, vendor string, d int) expdomain.ExpectedOrder {
	return expdomain.ExpectedOrder{
		ClientID:     client,
		ServiceType:  clientdomain.ServiceFood,
		Category:     expdomain.AnyCategory,
		VendorID:     vendor,
		DeliveryDate: day(d),
	}
}

func persisted(client, category, vendor string, d int) orderdomain.Order {
	date := day(d)
	return orderdomain.Order{
		ClientID:     client,
		ServiceType:  "Meal",
		Category:     category,
		VendorID:     vendor,
		DeliveryDate: &date,
	}
}

func persistedFood(client, vendor string, d int) orderdomain.Order {
	o := persisted(client, "", vendor, d)
	o.ServiceType = "Food"
	return o
}

func TestMatchExactKey(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "Lunch", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
	assert.Len(t, out.matched, 1)
}

func TestMatchMissingWhenNoCounterpart(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c2", "Lunch", "v1", 13)},
		matchDirs(), nil,
	)
	require.Len(t, out.missing, 1)
	assert.Equal(t, "c1", out.missing[0].ClientID)
}

func TestMatchVendorMismatchIsMissing(t *testing.T) {
	// Another vendor's order in the same client and date slot must not
	// satisfy the expectation.
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "Lunch", "v2", 13)},
		matchDirs(), nil,
	)
	require.Len(t, out.missing, 1)
	assert.Equal(t, "v1", out.missing[0].VendorID)
}

func TestMatchSlotAcceptsMislabeledCategory(t *testing.T) {
	// The persisted order sits in the right client, date and vendor
	// slot but carries the wrong category label. The slot pass accepts
	// it instead of reporting a missing order.
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "Breakfast", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchExactWinsOverSlot(t *testing.T) {
	// With both labels present on the same day, each expectation takes
	// its own label. Nothing is left over in either pass.
	out := match(
		[]expdomain.ExpectedOrder{
			expectedMeal("c1", "Lunch", "v1", 13),
			expectedMeal("c1", "Breakfast", "v1", 13),
		},
		[]orderdomain.Order{
			persisted("c1", "Breakfast", "v1", 13),
			persisted("c1", "Lunch", "v1", 13),
		},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchFoodDateDriftWithinWeek(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{expectedFood("c1", "v1", 13)},
		[]orderdomain.Order{persistedFood("c1", "v1", 15)},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchDriftStaysWithinVendor(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{expectedFood("c1", "v1", 13)},
		[]orderdomain.Order{persistedFood("c1", "v2", 15)},
		matchDirs(), nil,
	)
	assert.Len(t, out.missing, 1)
}

func TestMatchMealPlansDoNotDrift(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "Lunch", "v1", 15)},
		matchDirs(), nil,
	)
	assert.Len(t, out.missing, 1)
}

func TestMatchBoxesByClientAlone(t *testing.T) {
	box := expdomain.ExpectedOrder{
		ClientID:    "c1",
		ServiceType: clientdomain.ServiceBoxes,
		Category:    expdomain.BoxesCategory,
	}

	out := match(
		[]expdomain.ExpectedOrder{box},
		[]orderdomain.Order{{ClientID: "c1", ServiceType: "Boxes"}},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)

	out = match(
		[]expdomain.ExpectedOrder{box},
		[]orderdomain.Order{persisted("c1", "Lunch", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Len(t, out.missing, 1, "dated meal order must not satisfy a box expectation")
}

func TestMatchUndatedMealOrderIsNotABox(t *testing.T) {
	box := expdomain.ExpectedOrder{
		ClientID:    "c1",
		ServiceType: clientdomain.ServiceBoxes,
		Category:    expdomain.BoxesCategory,
	}
	undated := orderdomain.Order{ClientID: "c1", ServiceType: "Meal", Category: "Lunch"}

	out := match(
		[]expdomain.ExpectedOrder{box},
		[]orderdomain.Order{undated},
		matchDirs(), nil,
	)
	assert.Len(t, out.missing, 1, "undated meal order must not satisfy a box expectation")
}

func TestMatchEachOrderConsumedOnce(t *testing.T) {
	out := match(
		[]expdomain.ExpectedOrder{
			expectedMeal("c1", "Lunch", "v1", 13),
			expectedMeal("c1", "Lunch", "v1", 13),
		},
		[]orderdomain.Order{persisted("c1", "Lunch", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Len(t, out.missing, 1)
	assert.Len(t, out.matched, 1)
}

func TestMatchDerivesCategoryFromItems(t *testing.T) {
	o := persisted("c1", "", "v1", 13)
	o.Items = []orderdomain.OrderItem{{ItemID: "meal-breakfast", Quantity: 1}}

	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Breakfast", "v1", 13)},
		[]orderdomain.Order{o},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchUnclassifiedOrderActsAsWildcard(t *testing.T) {
	// No label and no items: the order cannot match any label exactly,
	// but it still occupies its slot in the second pass.
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Breakfast", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchCanonicalizesStoredLabels(t *testing.T) {
	// Legacy rows store keys like "Lunch_V2", the prefix before the
	// underscore is the canonical category.
	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("c1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("c1", "Lunch_V2", "v1", 13)},
		matchDirs(), nil,
	)
	assert.Empty(t, out.missing)
}

func TestMatchRollsUpSubAccounts(t *testing.T) {
	rollup := map[string]string{"child-1": "parent-1"}

	out := match(
		[]expdomain.ExpectedOrder{expectedMeal("parent-1", "Lunch", "v1", 13)},
		[]orderdomain.Order{persisted("child-1", "Lunch", "v1", 13)},
		matchDirs(), rollup,
	)
	assert.Empty(t, out.missing)
}

func TestMatchDeterministicPartition(t *testing.T) {
	expected := []expdomain.ExpectedOrder{
		expectedMeal("c1", "Lunch", "v1", 13),
		expectedMeal("c1", "Breakfast", "v1", 13),
		expectedFood("c2", "v2", 14),
	}
	existing := []orderdomain.Order{
		persisted("c1", "", "v1", 13),
		persistedFood("c2", "v2", 15),
	}

	first := match(expected, existing, matchDirs(), nil)
	for i := 0; i < 5; i++ {
		again := match(expected, existing, matchDirs(), nil)
		assert.Equal(t, len(first.missing), len(again.missing))
		assert.Equal(t, len(first.matched), len(again.matched))
	}
}
