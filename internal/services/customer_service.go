package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

type CustomerInput struct {
	Name          *string
	ContactNumber *string
}

type CustomerService struct {
	db        *gorm.DB
	customers *store.Repo[models.Customer]
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db, customers: store.NewRepo[models.Customer](db, "customer")}
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	contact := trimmed(in.ContactNumber)
	if contact != nil {
		if err := s.contactFree(ctx, *contact, 0); err != nil {
			return nil, err
		}
	}
	c := &models.Customer{Name: in.Name, ContactNumber: contact}
	if err := s.customers.Insert(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// GetOrCreate finds a customer by contact number, refreshing the stored name
// when a different one is supplied, or creates a new one.
func (s *CustomerService) GetOrCreate(ctx context.Context, in CustomerInput) (*models.Customer, error) {
	contact := trimmed(in.ContactNumber)
	if contact == nil {
		return s.Create(ctx, in)
	}
	existing, err := s.customers.GetByField(ctx, "contact_number", *contact)
	if apperr.Is(err, apperr.NotFound) {
		return s.Create(ctx, CustomerInput{Name: in.Name, ContactNumber: contact})
	}
	if err != nil {
		return nil, err
	}
	if in.Name != nil && (existing.Name == nil || *existing.Name != *in.Name) {
		return s.customers.Update(ctx, existing.ID, map[string]any{"name": *in.Name})
	}
	return existing, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	return s.customers.Get(ctx, id)
}

func (s *CustomerService) List(ctx context.Context, page store.Page) ([]models.Customer, error) {
	return s.customers.List(ctx, nil, "id", page)
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (*models.Customer, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = *in.Name
	}
	if contact := trimmed(in.ContactNumber); contact != nil {
		if err := s.contactFree(ctx, *contact, id); err != nil {
			return nil, err
		}
		fields["contact_number"] = *contact
	}
	return s.customers.Update(ctx, id, fields)
}

// Delete removes the customer. Their orders and feedback are kept anonymously.
func (s *CustomerService) Delete(ctx context.Context, id uint) (*models.Customer, error) {
	var deleted *models.Customer
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		for _, model := range []any{&models.Order{}, &models.Feedback{}} {
			if err := detach(tx, model, "customer_id", id); err != nil {
				return err
			}
		}
		var err error
		deleted, err = s.customers.WithTx(tx).Delete(ctx, id)
		return err
	})
	return deleted, err
}

func (s *CustomerService) contactFree(ctx context.Context, contact string, self uint) error {
	existing, err := s.customers.GetByField(ctx, "contact_number", contact)
	switch {
	case apperr.Is(err, apperr.NotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != self:
		return apperr.Conflictf("contact number already registered")
	}
	return nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
