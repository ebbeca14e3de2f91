package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/testutil"
)

type fixture struct {
	db        *gorm.DB
	orders    *OrderService
	payments  *PaymentService
	catalog   *CatalogService
	tables    *TableService
	customers *CustomerService
	staff     *StaffService
	feedback  *FeedbackService
	dashboard *DashboardService

	category *models.Category
	burger   *models.MenuItem // 4.50
	salad    *models.MenuItem // 4.00
	table    *models.Table
	waiter   *models.Staff
}

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) Invalidate(context.Context) { c.calls++ }

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	db := testutil.OpenDB(t)

	f := &fixture{
		db:        db,
		orders:    NewOrderService(db),
		payments:  NewPaymentService(db),
		catalog:   NewCatalogService(db, nil),
		tables:    NewTableService(db),
		customers: NewCustomerService(db),
		staff:     NewStaffService(db),
		feedback:  NewFeedbackService(db),
		dashboard: NewDashboardService(db),
	}

	var err error
	f.category, err = f.catalog.CreateCategory(ctx, CategoryInput{Name: "Mains"})
	require.NoError(t, err)
	f.burger, err = f.catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: f.category.ID, Name: "Burger", Price: 450})
	require.NoError(t, err)
	f.salad, err = f.catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: f.category.ID, Name: "Salad", Price: 400})
	require.NoError(t, err)
	f.table, err = f.tables.Create(ctx, TableInput{Number: "T1", Capacity: 4})
	require.NoError(t, err)
	f.waiter, err = f.staff.Create(ctx, StaffInput{Name: "Wendy", Role: models.RoleWaiter, Username: "wendy", Password: "secret1"})
	require.NoError(t, err)
	return f
}

// newOrder creates 2 × burger + 1 × salad = 13.00 at the fixture's table.
func (f *fixture) newOrder(t *testing.T) *models.Order {
	t.Helper()
	order, err := f.orders.CreateOrder(context.Background(), CreateOrderInput{
		TableID:  &f.table.ID,
		WaiterID: &f.waiter.ID,
		Items: []OrderItemInput{
			{MenuItemID: f.burger.ID, Quantity: 2},
			{MenuItemID: f.salad.ID, Quantity: 1},
		},
	})
	require.NoError(t, err)
	return order
}

func ptr[T any](v T) *T { return &v }
