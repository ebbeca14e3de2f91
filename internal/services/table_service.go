package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

type TableInput struct {
	Number   string
	Capacity int
	Status   string
}

type TableUpdate struct {
	Number   *string
	Capacity *int
	Status   *string
}

type TableService struct {
	db     *gorm.DB
	tables *store.Repo[models.Table]
}

func NewTableService(db *gorm.DB) *TableService {
	return &TableService{db: db, tables: store.NewRepo[models.Table](db, "table")}
}

func (s *TableService) Create(ctx context.Context, in TableInput) (*models.Table, error) {
	number := strings.TrimSpace(in.Number)
	if number == "" {
		return nil, apperr.Invalidf("table_number is required")
	}
	if in.Capacity < 1 {
		return nil, apperr.Invalidf("capacity must be at least 1")
	}
	if err := s.numberFree(ctx, number, 0); err != nil {
		return nil, err
	}
	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = models.TableAvailable
	}
	t := &models.Table{Number: number, Capacity: in.Capacity, Status: status}
	if err := s.tables.Insert(ctx, t); err != nil {
		if apperr.Is(err, apperr.Conflict) {
			return nil, apperr.Conflictf("table number %q already exists", number)
		}
		return nil, err
	}
	return t, nil
}

func (s *TableService) Get(ctx context.Context, id uint) (*models.Table, error) {
	return s.tables.Get(ctx, id)
}

func (s *TableService) List(ctx context.Context, status *string, page store.Page) ([]models.Table, error) {
	return s.tables.List(ctx, store.Filters{"status": status}, "id", page)
}

func (s *TableService) Update(ctx context.Context, id uint, in TableUpdate) (*models.Table, error) {
	fields := map[string]any{}
	if in.Number != nil {
		number := strings.TrimSpace(*in.Number)
		if number == "" {
			return nil, apperr.Invalidf("table_number must not be empty")
		}
		if err := s.numberFree(ctx, number, id); err != nil {
			return nil, err
		}
		fields["table_number"] = number
	}
	if in.Capacity != nil {
		if *in.Capacity < 1 {
			return nil, apperr.Invalidf("capacity must be at least 1")
		}
		fields["capacity"] = *in.Capacity
	}
	if in.Status != nil {
		fields["status"] = strings.TrimSpace(*in.Status)
	}
	return s.tables.Update(ctx, id, fields)
}

// Delete removes the table; its orders stay and lose the reference.
func (s *TableService) Delete(ctx context.Context, id uint) (*models.Table, error) {
	var deleted *models.Table
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if err := detach(tx, &models.Order{}, "table_id", id); err != nil {
			return err
		}
		var err error
		deleted, err = s.tables.WithTx(tx).Delete(ctx, id)
		return err
	})
	return deleted, err
}

func (s *TableService) numberFree(ctx context.Context, number string, self uint) error {
	existing, err := s.tables.GetByField(ctx, "table_number", number)
	switch {
	case apperr.Is(err, apperr.NotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Conflictf("table number %q already exists", number)
	}
	return nil
}
