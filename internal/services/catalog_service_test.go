package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
	"restaurant_pos/internal/testutil"
)

func TestCatalogWritesInvalidateCache(t *testing.T) {
	ctx := context.Background()
	inv := &countingInvalidator{}
	catalog := NewCatalogService(testutil.OpenDB(t), inv)

	cat, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	item, err := catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: cat.ID, Name: "Tea", Price: 150})
	require.NoError(t, err)
	assert.True(t, item.IsAvailable)

	toggled, err := catalog.ToggleAvailability(ctx, item.ID)
	require.NoError(t, err)
	assert.False(t, toggled.IsAvailable)

	_, err = catalog.UpdateMenuItem(ctx, item.ID, MenuItemUpdate{Price: ptr(models.Money(175))})
	require.NoError(t, err)

	assert.Equal(t, 4, inv.calls)

	_, err = catalog.GetCategory(ctx, cat.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, inv.calls, "reads do not invalidate")
}

func TestCatalogValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Mains"})
	assert.True(t, apperr.Is(err, apperr.Conflict))

	_, err = f.catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: 999, Name: "Ghost", Price: 100})
	assert.True(t, apperr.Is(err, apperr.NotFound))

	_, err = f.catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: f.category.ID, Name: "Free money", Price: -1})
	assert.True(t, apperr.Is(err, apperr.InvalidArgument))

	_, err = f.catalog.DeleteCategory(ctx, f.category.ID)
	assert.True(t, apperr.Is(err, apperr.Conflict))
}

func TestListMenuItemsFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	drinks, err := f.catalog.CreateCategory(ctx, CategoryInput{Name: "Drinks"})
	require.NoError(t, err)
	_, err = f.catalog.CreateMenuItem(ctx, MenuItemInput{CategoryID: drinks.ID, Name: "Soda", Price: 200, IsAvailable: ptr(false)})
	require.NoError(t, err)

	all, err := f.catalog.ListMenuItems(ctx, MenuFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	available, err := f.catalog.ListMenuItems(ctx, MenuFilter{AvailableOnly: true})
	require.NoError(t, err)
	assert.Len(t, available, 2)

	inDrinks, err := f.catalog.ListMenuItems(ctx, MenuFilter{CategoryID: &drinks.ID, Page: store.Page{Limit: 10}})
	require.NoError(t, err)
	require.Len(t, inDrinks, 1)
	assert.Equal(t, "Soda", inDrinks[0].Name)
}
