package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/metrics"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/store"
)

type PaymentInput struct {
	OrderID uint
	Amount  models.Money
	Method  models.PaymentMethod
}

type PaymentUpdate struct {
	Amount *models.Money
	Method *models.PaymentMethod
}

// PaymentSummary is the paid/unpaid report for one order.
type PaymentSummary struct {
	OrderID     uint         `json:"order_id"`
	TotalAmount models.Money `json:"total_amount"`
	TotalPaid   models.Money `json:"total_paid"`
	IsFullyPaid bool         `json:"is_fully_paid"`
}

type PaymentService struct {
	db       *gorm.DB
	payments *store.Repo[models.Payment]
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db, payments: store.NewRepo[models.Payment](db, "payment")}
}

// RecordPayment stores a payment and marks the order completed. Any payment
// completes the order, whatever its amount.
func (s *PaymentService) RecordPayment(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	payment := &models.Payment{
		OrderID:     in.OrderID,
		Amount:      in.Amount,
		Method:      in.Method,
		PaymentDate: time.Now().UTC(),
	}
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		order, err := store.LockByID[models.Order](tx, in.OrderID, "order")
		if err != nil {
			return err
		}
		if err := validatePayment(in.Amount, in.Method); err != nil {
			return err
		}
		if err := s.payments.WithTx(tx).Insert(ctx, payment); err != nil {
			return err
		}
		if order.Status != models.OrderCompleted {
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).Update("status", models.OrderCompleted).Error; err != nil {
				return store.Translate(err, "completing order %d", order.ID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.PaymentRecorded(string(payment.Method), int64(payment.Amount))
	logrus.WithFields(logrus.Fields{
		"order_id": payment.OrderID,
		"amount":   payment.Amount.String(),
		"method":   payment.Method,
	}).Info("payment recorded")
	return payment, nil
}

// TotalPaid sums every payment recorded against the order.
func (s *PaymentService) TotalPaid(ctx context.Context, orderID uint) (models.Money, error) {
	var total int64
	err := s.db.WithContext(ctx).Model(&models.Payment{}).
		Select("CAST(COALESCE(SUM(amount_cents), 0) AS BIGINT)").
		Where("order_id = ?", orderID).
		Scan(&total).Error
	if err != nil {
		return 0, store.Translate(err, "summing payments of order %d", orderID)
	}
	return models.Money(total), nil
}

// IsFullyPaid reports totalPaid >= total. A missing order is simply not paid.
func (s *PaymentService) IsFullyPaid(ctx context.Context, orderID uint) (bool, error) {
	summary, err := s.Summary(ctx, orderID)
	if apperr.Is(err, apperr.NotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return summary.IsFullyPaid, nil
}

func (s *PaymentService) Summary(ctx context.Context, orderID uint) (*PaymentSummary, error) {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		return nil, store.Translate(err, "order %d not found", orderID)
	}
	paid, err := s.TotalPaid(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &PaymentSummary{
		OrderID:     order.ID,
		TotalAmount: order.TotalAmount,
		TotalPaid:   paid,
		IsFullyPaid: paid >= order.TotalAmount,
	}, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id uint) (*models.Payment, error) {
	return s.payments.Get(ctx, id)
}

// ListPayments returns payments newest first.
func (s *PaymentService) ListPayments(ctx context.Context, page store.Page) ([]models.Payment, error) {
	return s.payments.List(ctx, nil, "payment_date DESC, id DESC", page)
}

func (s *PaymentService) ListPaymentsByOrder(ctx context.Context, orderID uint) ([]models.Payment, error) {
	if err := requireRow(s.db.WithContext(ctx), &models.Order{}, orderID, "order"); err != nil {
		return nil, err
	}
	return s.payments.List(ctx, store.Filters{"order_id": orderID}, "id", store.Page{})
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id uint, in PaymentUpdate) (*models.Payment, error) {
	fields := map[string]any{}
	if in.Amount != nil {
		if *in.Amount < 0 {
			return nil, apperr.Invalidf("amount must not be negative")
		}
		fields["amount_cents"] = *in.Amount
	}
	if in.Method != nil {
		if !in.Method.Valid() {
			return nil, apperr.Invalidf("invalid payment method %q", *in.Method)
		}
		fields["payment_method"] = *in.Method
	}
	return s.payments.Update(ctx, id, fields)
}

func (s *PaymentService) DeletePayment(ctx context.Context, id uint) (*models.Payment, error) {
	return s.payments.Delete(ctx, id)
}

func validatePayment(amount models.Money, method models.PaymentMethod) error {
	if !method.Valid() {
		return apperr.Invalidf("invalid payment method %q", method)
	}
	if amount < 0 {
		return apperr.Invalidf("amount must not be negative")
	}
	return nil
}
