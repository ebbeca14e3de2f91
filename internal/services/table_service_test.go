package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
)

func TestTableNumberIsUnique(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.tables.Create(ctx, TableInput{Number: "T1", Capacity: 2})
	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	t2, err := f.tables.Create(ctx, TableInput{Number: "T2", Capacity: 2, Status: "reserved"})
	require.NoError(t, err)
	_, err = f.tables.Update(ctx, t2.ID, TableUpdate{Number: ptr("T1")})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	same, err := f.tables.Update(ctx, t2.ID, TableUpdate{Number: ptr("T2"), Capacity: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, 6, same.Capacity)

	reserved := "reserved"
	list, err := f.tables.List(ctx, &reserved, pageAll)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "T2", list[0].Number)

	all, err := f.tables.List(ctx, nil, pageAll)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, models.TableAvailable, all[0].Status)

	_, err = f.tables.Create(ctx, TableInput{Number: "T3", Capacity: 0})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))
}

func TestDeletingTableKeepsOrders(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	order := f.newOrder(t)

	_, err := f.tables.Delete(ctx, f.table.ID)
	require.NoError(t, err)

	reloaded, err := f.orders.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.TableID)
	assert.Equal(t, models.Money(1300), reloaded.TotalAmount)
}
