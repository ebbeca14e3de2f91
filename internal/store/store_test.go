package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/testutil"
)

func strptr(s string) *string { return &s }

func TestRepoCRUD(t *testing.T) {
	ctx := context.Background()
	tables := NewRepo[models.Table](testutil.OpenDB(t), "table")

	rec := &models.Table{Number: "T1", Capacity: 4, Status: models.TableAvailable}
	require.NoError(t, tables.Insert(ctx, rec))
	require.NotZero(t, rec.ID)

	got, err := tables.GetByField(ctx, "table_number", "T1")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)

	updated, err := tables.Update(ctx, rec.ID, map[string]any{"capacity": 6})
	require.NoError(t, err)
	assert.Equal(t, 6, updated.Capacity)
	assert.Equal(t, "T1", updated.Number)

	deleted, err := tables.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, 6, deleted.Capacity)

	_, err = tables.Get(ctx, rec.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestRepoUniqueViolationIsConflict(t *testing.T) {
	ctx := context.Background()
	customers := NewRepo[models.Customer](testutil.OpenDB(t), "customer")

	require.NoError(t, customers.Insert(ctx, &models.Customer{Name: strptr("Ann"), ContactNumber: strptr("555")}))
	err := customers.Insert(ctx, &models.Customer{Name: strptr("Bob"), ContactNumber: strptr("555")})

	require.Error(t, err)
	assert.Equal(t, apperr.Conflict, apperr.KindOf(err))

	// missing contact numbers do not collide
	require.NoError(t, customers.Insert(ctx, &models.Customer{Name: strptr("C")}))
	require.NoError(t, customers.Insert(ctx, &models.Customer{Name: strptr("D")}))
}

func TestRepoListFiltersAndPaging(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	cats := NewRepo[models.Category](db, "category")
	items := NewRepo[models.MenuItem](db, "menu item")

	c := &models.Category{Name: "Mains"}
	require.NoError(t, cats.Insert(ctx, c))
	for i, name := range []string{"Soup", "Stew", "Pie"} {
		require.NoError(t, items.Insert(ctx, &models.MenuItem{
			CategoryID: c.ID, Name: name, Price: models.Money(100 * (i + 1)), IsAvailable: i != 1,
		}))
	}

	var onlyAvailable *bool
	all, err := items.List(ctx, Filters{"category_id": c.ID, "is_available": onlyAvailable}, "", Page{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	yes := true
	available, err := items.List(ctx, Filters{"is_available": &yes}, "id", Page{})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	paged, err := items.List(ctx, nil, "id", Page{Skip: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "Stew", paged[0].Name)

	n, err := items.Count(ctx, Filters{"category_id": c.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUpdateMissingRecord(t *testing.T) {
	_, err := NewRepo[models.Table](testutil.OpenDB(t), "table").Update(context.Background(), 42, map[string]any{"capacity": 2})
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Contains(t, err.Error(), "table 42 not found")
}

func TestTxRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.OpenDB(t)
	tables := NewRepo[models.Table](db, "table")

	err := Tx(ctx, db, func(tx *gorm.DB) error {
		if err := tables.WithTx(tx).Insert(ctx, &models.Table{Number: "T9", Capacity: 2, Status: "available"}); err != nil {
			return err
		}
		return apperr.Invalidf("abort")
	})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	n, err := tables.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}
