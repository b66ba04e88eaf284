package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/platefull/weekplan/internal/client/domain"
)

var cutoff = time.Date(2026, 1, 9, 12, 0, 0, 0, time.UTC)

const mealJSON = `{"serviceType":"Meal","mealSelections":{"Lunch":{"vendorId":"v1","items":{"m1":1}}}}`
const foodJSON = `{"serviceType":"Food","vendorSelections":[{"vendorId":"v2","items":{"i1":2}}]}`

func logWith(entries string) datatypes.JSON {
	return datatypes.JSON("[" + entries + "]")
}

func TestSelectLiveWhenCommittedBeforeCutoff(t *testing.T) {
	at := cutoff.Add(-48 * time.Hour)
	client := domain.Client{
		UpcomingOrder:          datatypes.JSON(mealJSON),
		UpcomingOrderUpdatedAt: &at,
	}

	sel, ok := Select(client, cutoff)
	require.True(t, ok)
	assert.Equal(t, SourceLive, sel.Source)
	assert.Equal(t, "v1", sel.Config.CategorySelections["Lunch"].VendorID)
}

func TestSelectLogSnapshotWhenLiveCommittedAfterCutoff(t *testing.T) {
	at := cutoff.Add(2 * time.Hour)
	client := domain.Client{
		UpcomingOrder:          datatypes.JSON(foodJSON),
		UpcomingOrderUpdatedAt: &at,
		OrderHistory: logWith(
			`{"type":"upcoming","timestamp":"2026-01-05T10:00:00Z","orderData":` + mealJSON + `},` +
				`{"type":"upcoming","timestamp":"2026-01-09T14:00:00Z","orderData":` + foodJSON + `}`,
		),
	}

	sel, ok := Select(client, cutoff)
	require.True(t, ok)
	assert.Equal(t, SourceLog, sel.Source)
	assert.Equal(t, domain.ServiceMeal, sel.Config.ServiceType)
	require.NotNil(t, sel.Timestamp)
	assert.Equal(t, 5, sel.Timestamp.Day())
}

func TestSelectNewestSnapshotWins(t *testing.T) {
	at := cutoff.Add(time.Minute)
	client := domain.Client{
		UpcomingOrder:          datatypes.JSON(mealJSON),
		UpcomingOrderUpdatedAt: &at,
		OrderHistory: logWith(
			`{"type":"upcoming","timestamp":"2026-01-03T10:00:00Z","orderData":` + mealJSON + `},` +
				`{"type":"upcoming","timestamp":"2026-01-08T10:00:00Z","orderData":` + foodJSON + `}`,
		),
	}

	sel, ok := Select(client, cutoff)
	require.True(t, ok)
	assert.Equal(t, domain.ServiceFood, sel.Config.ServiceType)
	assert.Equal(t, 8, sel.Timestamp.Day())
}

func TestSelectNoSnapshotAfterTaintedLive(t *testing.T) {
	at := cutoff.Add(time.Hour)
	client := domain.Client{
		UpcomingOrder:          datatypes.JSON(mealJSON),
		UpcomingOrderUpdatedAt: &at,
	}

	_, ok := Select(client, cutoff)
	assert.False(t, ok)
}

func TestSelectLogChangeAfterCutoffTaintsLive(t *testing.T) {
	// No committed-at column, the change log alone marks the live
	// configuration as post-cutoff.
	client := domain.Client{
		UpcomingOrder: datatypes.JSON(foodJSON),
		OrderHistory: logWith(
			`{"type":"upcoming","timestamp":"2026-01-06T10:00:00Z","orderData":` + mealJSON + `},` +
				`{"type":"upcoming","timestamp":"2026-01-10T10:00:00Z","orderData":` + foodJSON + `}`,
		),
	}

	sel, ok := Select(client, cutoff)
	require.True(t, ok)
	assert.Equal(t, SourceLog, sel.Source)
	assert.Equal(t, domain.ServiceMeal, sel.Config.ServiceType)
}

func TestSelectFallsBackToLogWhenLiveEmpty(t *testing.T) {
	client := domain.Client{
		OrderHistory: logWith(
			`{"type":"upcoming","timestamp":"2026-01-06T10:00:00Z","orderData":` + mealJSON + `}`,
		),
	}

	sel, ok := Select(client, cutoff)
	require.True(t, ok)
	assert.Equal(t, SourceLog, sel.Source)
}

func TestSelectNothingConfigured(t *testing.T) {
	_, ok := Select(domain.Client{}, cutoff)
	assert.False(t, ok)
}
