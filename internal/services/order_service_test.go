package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

func TestCreateOrderComputesTotal(t *testing.T) {
	f := newFixture(t)
	order := f.newOrder(t)

	assert.Equal(t, models.Money(1300), order.TotalAmount)
	assert.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 2)
	assert.Equal(t, models.ItemPending, order.Items[0].Status)
	require.NotNil(t, order.Table)
	assert.Equal(t, "T1", order.Table.Number)
	require.NotNil(t, order.Waiter)
	assert.Equal(t, "wendy", order.Waiter.Username)
}

func TestCreateOrderRollsBackOnBadItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.CreateOrder(ctx, CreateOrderInput{
		TableID: &f.table.ID,
		Items: []OrderItemInput{
			{MenuItemID: f.burger.ID, Quantity: 1},
			{MenuItemID: 9999, Quantity: 1},
		},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.NotFound, apperr.KindOf(err))

	orders, err := f.orders.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	assert.Empty(t, orders)
	var items int64
	require.NoError(t, f.db.Model(&models.OrderItem{}).Count(&items).Error)
	assert.Zero(t, items)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.orders.CreateOrder(ctx, CreateOrderInput{Status: "shipped"})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	_, err = f.orders.CreateOrder(ctx, CreateOrderInput{Items: []OrderItemInput{{MenuItemID: f.burger.ID, Quantity: 0}}})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	missing := uint(404)
	_, err = f.orders.CreateOrder(ctx, CreateOrderInput{CustomerID: &missing})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	empty, err := f.orders.CreateOrder(ctx, CreateOrderInput{})
	require.NoError(t, err)
	assert.Zero(t, empty.TotalAmount)
	assert.Empty(t, empty.Items)
}

func TestItemMutationsKeepTotalInSync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	total := func() models.Money {
		o, err := f.orders.GetOrder(ctx, order.ID)
		require.NoError(t, err)
		calc, err := f.orders.CalculateTotal(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, calc, o.TotalAmount, "stored total must match the computed total")
		return o.TotalAmount
	}

	added, err := f.orders.AddOrderItem(ctx, order.ID, OrderItemInput{MenuItemID: f.salad.ID, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, models.Money(2100), total())

	_, err = f.orders.UpdateOrderItem(ctx, added.ID, OrderItemUpdate{Quantity: ptr(1)})
	require.NoError(t, err)
	assert.Equal(t, models.Money(1700), total())

	_, err = f.orders.UpdateOrderItem(ctx, added.ID, OrderItemUpdate{MenuItemID: &f.burger.ID})
	require.NoError(t, err)
	assert.Equal(t, models.Money(1750), total())

	_, err = f.orders.DeleteOrderItem(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(1300), total())

	_, err = f.orders.UpdateOrderItem(ctx, added.ID, OrderItemUpdate{Quantity: ptr(3)})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	_, err = f.orders.AddOrderItem(ctx, 777, OrderItemInput{MenuItemID: f.salad.ID, Quantity: 1})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	_, err = f.orders.UpdateOrderItem(ctx, order.Items[0].ID, OrderItemUpdate{Quantity: ptr(0)})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}

func TestDeletedMenuItemContributesZero(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.catalog.DeleteMenuItem(ctx, f.salad.ID)
	require.NoError(t, err)

	total, err := f.orders.CalculateTotal(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(900), total)

	updated, err := f.orders.UpdateOrder(ctx, order.ID, OrderUpdate{})
	require.NoError(t, err)
	assert.Equal(t, models.Money(900), updated.TotalAmount)
	assert.Len(t, updated.Items, 2)
}

func TestUpdateOrderExplicitTotalOverride(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	processing := models.OrderProcessing
	updated, err := f.orders.UpdateOrder(ctx, order.ID, OrderUpdate{Status: &processing, TotalAmount: ptr(models.Money(1000))})
	require.NoError(t, err)
	assert.Equal(t, models.Money(1000), updated.TotalAmount)
	assert.Equal(t, models.OrderProcessing, updated.Status)

	_, err = f.orders.UpdateOrder(ctx, 4242, OrderUpdate{})
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestSetOrderStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	got, err := f.orders.SetOrderStatus(ctx, order.ID, models.OrderCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, got.Status)

	// no transition graph: cancelled can go back to pending
	got, err = f.orders.SetOrderStatus(ctx, order.ID, models.OrderPending)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, got.Status)

	_, err = f.orders.SetOrderStatus(ctx, order.ID, "shipped")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
	_, err = f.orders.SetOrderStatus(ctx, 999, models.OrderPending)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestBatchUpdateItemStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	items, err := f.orders.BatchUpdateItemStatus(ctx, order.ID, models.ItemReady)
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, it := range items {
		assert.Equal(t, models.ItemReady, it.Status)
	}

	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, reloaded.Status)

	_, err = f.orders.BatchUpdateItemStatus(ctx, order.ID, "cooking")
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	single, err := f.orders.SetOrderItemStatus(ctx, items[0].ID, models.ItemDelivered)
	require.NoError(t, err)
	assert.Equal(t, models.ItemDelivered, single.Status)
}

func TestDeleteOrderCascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.payments.RecordPayment(ctx, PaymentInput{OrderID: order.ID, Amount: 500, Method: models.PaymentCash})
	require.NoError(t, err)
	_, err = f.feedback.Create(ctx, FeedbackInput{OrderID: order.ID, Rating: 4})
	require.NoError(t, err)

	deleted, err := f.orders.DeleteOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, deleted.ID)

	for _, model := range []any{&models.OrderItem{}, &models.Payment{}, &models.Feedback{}} {
		var n int64
		require.NoError(t, f.db.Model(model).Where("order_id = ?", order.ID).Count(&n).Error)
		assert.Zero(t, n)
	}
	_, err = f.orders.GetOrder(ctx, order.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestListOrdersFiltersNewestFirst(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := f.newOrder(t)
	second := f.newOrder(t)
	_, err := f.orders.SetOrderStatus(ctx, first.ID, models.OrderCompleted)
	require.NoError(t, err)

	all, err := f.orders.ListOrders(ctx, OrderFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)

	completed := models.OrderCompleted
	done, err := f.orders.ListOrders(ctx, OrderFilter{Status: &completed})
	require.NoError(t, err)
	require.Len(t, done, 1)
	assert.Equal(t, first.ID, done[0].ID)

	paged, err := f.orders.ListOrders(ctx, OrderFilter{WaiterID: &f.waiter.ID, Page: store.Page{Skip: 1, Limit: 1}})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, first.ID, paged[0].ID)

	items, err := f.orders.ListOrderItems(ctx, first.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}
