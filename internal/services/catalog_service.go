package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

// CatalogInvalidator drops cached catalog reads after a write.
type CatalogInvalidator interface {
	Invalidate(ctx context.Context)
}

type CategoryInput struct {
	Name        string
	Description *string
}

type CategoryUpdate struct {
	Name        *string
	Description *string
}

type MenuItemInput struct {
	CategoryID  uint
	Name        string
	Description *string
	Price       models.Money
	IsAvailable *bool
	ImageURL    *string
}

type MenuItemUpdate struct {
	CategoryID  *uint
	Name        *string
	Description *string
	Price       *models.Money
	IsAvailable *bool
	ImageURL    *string
}

type MenuFilter struct {
	CategoryID    *uint
	AvailableOnly bool
	Page          store.Page
}

type CatalogService struct {
	categories *store.Repo[models.Category]
	items      *store.Repo[models.MenuItem]
	cache      CatalogInvalidator
}

// NewCatalogService accepts a nil cache.
func NewCatalogService(db *gorm.DB, cache CatalogInvalidator) *CatalogService {
	return &CatalogService{
		categories: store.NewRepo[models.Category](db, "category"),
		items:      store.NewRepo[models.MenuItem](db, "menu item"),
		cache:      cache,
	}
}

func (s *CatalogService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperr.Invalidf("category name is required")
	}
	if err := s.categoryNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	c := &models.Category{Name: name, Description: in.Description}
	if err := s.categories.Insert(ctx, c); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	return s.categories.Get(ctx, id)
}

func (s *CatalogService) ListCategories(ctx context.Context, page store.Page) ([]models.Category, error) {
	return s.categories.List(ctx, nil, "id", page)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id uint, in CategoryUpdate) (*models.Category, error) {
	fields := map[string]any{}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, apperr.Invalidf("category name must not be empty")
		}
		if err := s.categoryNameFree(ctx, name, id); err != nil {
			return nil, err
		}
		fields["name"] = name
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	c, err := s.categories.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

// DeleteCategory refuses to orphan menu items.
func (s *CatalogService) DeleteCategory(ctx context.Context, id uint) (*models.Category, error) {
	if _, err := s.categories.Get(ctx, id); err != nil {
		return nil, err
	}
	n, err := s.items.Count(ctx, store.Filters{"category_id": id})
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, apperr.Conflictf("category %d still has %d menu items", id, n)
	}
	c, err := s.categories.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return c, nil
}

func (s *CatalogService) CreateMenuItem(ctx context.Context, in MenuItemInput) (*models.MenuItem, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Invalidf("menu item name is required")
	}
	if in.Price < 0 {
		return nil, apperr.Invalidf("price must not be negative")
	}
	if _, err := s.categories.Get(ctx, in.CategoryID); err != nil {
		return nil, err
	}
	available := true
	if in.IsAvailable != nil {
		available = *in.IsAvailable
	}
	item := &models.MenuItem{
		CategoryID:  in.CategoryID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		IsAvailable: available,
		ImageURL:    in.ImageURL,
	}
	if err := s.items.Insert(ctx, item); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *CatalogService) GetMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	return s.items.Get(ctx, id)
}

func (s *CatalogService) ListMenuItems(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	filters := store.Filters{"category_id": f.CategoryID}
	if f.AvailableOnly {
		filters["is_available"] = true
	}
	return s.items.List(ctx, filters, "id", f.Page)
}

func (s *CatalogService) UpdateMenuItem(ctx context.Context, id uint, in MenuItemUpdate) (*models.MenuItem, error) {
	fields := map[string]any{}
	if in.CategoryID != nil {
		if _, err := s.categories.Get(ctx, *in.CategoryID); err != nil {
			return nil, err
		}
		fields["category_id"] = *in.CategoryID
	}
	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return nil, apperr.Invalidf("menu item name must not be empty")
		}
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, apperr.Invalidf("price must not be negative")
		}
		fields["price_cents"] = *in.Price
	}
	if in.IsAvailable != nil {
		fields["is_available"] = *in.IsAvailable
	}
	if in.ImageURL != nil {
		fields["image_url"] = *in.ImageURL
	}
	item, err := s.items.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

// ToggleAvailability flips is_available.
func (s *CatalogService) ToggleAvailability(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updated, err := s.items.Update(ctx, id, map[string]any{"is_available": !item.IsAvailable})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return updated, nil
}

// DeleteMenuItem leaves existing order lines in place; they price at zero.
func (s *CatalogService) DeleteMenuItem(ctx context.Context, id uint) (*models.MenuItem, error) {
	item, err := s.items.Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return item, nil
}

func (s *CatalogService) categoryNameFree(ctx context.Context, name string, self uint) error {
	existing, err := s.categories.GetByField(ctx, "name", name)
	switch {
	case apperr.Is(err, apperr.NotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Conflictf("category %q already exists", name)
	}
	return nil
}
