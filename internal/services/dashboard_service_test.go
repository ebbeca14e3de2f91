package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/models"
)

func TestDashboardStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	empty, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalOrders)
	assert.Zero(t, empty.AvgOrderValue)
	assert.NotNil(t, empty.RecentOrders)

	first := f.newOrder(t)
	f.newOrder(t)
	_, err = f.payments.RecordPayment(ctx, PaymentInput{OrderID: first.ID, Amount: 1300, Method: models.PaymentCash})
	require.NoError(t, err)

	stats, err := f.dashboard.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalOrders)
	assert.Equal(t, models.Money(2600), stats.TotalRevenue)
	assert.Equal(t, models.Money(1300), stats.AvgOrderValue)
	assert.EqualValues(t, 1, stats.ActiveTables)
	assert.EqualValues(t, 1, stats.TotalTables)
	require.Len(t, stats.RecentOrders, 2)
	assert.Equal(t, "T1", stats.RecentOrders[0].TableNumber)
	assert.Equal(t, 2, stats.RecentOrders[0].ItemsCount)

	require.Len(t, stats.PopularItems, 2)
	assert.EqualValues(t, 2, stats.PopularItems[0].Count)

	require.NotEmpty(t, stats.StaffPerformance)
	assert.Equal(t, f.waiter.ID, stats.StaffPerformance[0].ID)
	assert.Equal(t, 100, stats.StaffPerformance[0].Performance)
}
