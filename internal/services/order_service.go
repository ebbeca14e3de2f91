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

// OrderItemInput describes one line of an order.
type OrderItemInput struct {
	MenuItemID     uint
	Quantity       int
	SpecialRequest *string
	Status         models.OrderItemStatus
}

type CreateOrderInput struct {
	CustomerID *uint
	TableID    *uint
	WaiterID   *uint
	Status     models.OrderStatus
	Items      []OrderItemInput
}

// OrderUpdate is a partial update. A nil TotalAmount means "recompute from items".
type OrderUpdate struct {
	CustomerID  *uint
	TableID     *uint
	WaiterID    *uint
	Status      *models.OrderStatus
	TotalAmount *models.Money
}

type OrderItemUpdate struct {
	MenuItemID     *uint
	Quantity       *int
	SpecialRequest *string
	Status         *models.OrderItemStatus
}

type OrderFilter struct {
	Status     *models.OrderStatus
	CustomerID *uint
	TableID    *uint
	WaiterID   *uint
	Page       store.Page
}

type OrderService struct {
	db    *gorm.DB
	items *store.Repo[models.OrderItem]
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:    db,
		items: store.NewRepo[models.OrderItem](db, "order item"),
	}
}

// CreateOrder inserts the order, its items and its total in one transaction.
// A failing item leaves nothing behind.
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*models.Order, error) {
	status := in.Status
	if status == "" {
		status = models.OrderPending
	}
	if !status.Valid() {
		return nil, apperr.Invalidf("invalid order status %q", status)
	}
	for i := range in.Items {
		if err := normalizeItem(&in.Items[i]); err != nil {
			return nil, err
		}
	}

	order := models.Order{
		CustomerID: in.CustomerID,
		TableID:    in.TableID,
		WaiterID:   in.WaiterID,
		OrderDate:  time.Now().UTC(),
		Status:     status,
	}
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if err := checkOrderRefs(tx, in.CustomerID, in.TableID, in.WaiterID); err != nil {
			return err
		}
		if err := tx.Omit("Customer", "Table", "Waiter", "Items", "Payments", "Feedback").Create(&order).Error; err != nil {
			return store.Translate(err, "creating order")
		}
		for _, it := range in.Items {
			if _, err := insertItem(tx, order.ID, it); err != nil {
				return err
			}
		}
		_, err := persistTotal(tx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.OrderCreated()
	logrus.WithFields(logrus.Fields{"order_id": order.ID, "items": len(in.Items)}).Info("order created")
	return s.GetOrder(ctx, order.ID)
}

// GetOrder returns the order with its items, customer, table and waiter.
func (s *OrderService) GetOrder(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Customer").
		Preload("Table").
		Preload("Waiter").
		First(&order, id).Error
	if err != nil {
		return nil, store.Translate(err, "order %d not found", id)
	}
	return &order, nil
}

// ListOrders returns orders newest first.
func (s *OrderService) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.TableID != nil {
		q = q.Where("table_id = ?", *f.TableID)
	}
	if f.WaiterID != nil {
		q = q.Where("waiter_id = ?", *f.WaiterID)
	}
	q = store.Paginate(q.Order("order_date DESC").Order("id DESC"), f.Page)

	var orders []models.Order
	if err := q.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).Find(&orders).Error; err != nil {
		return nil, store.Translate(err, "listing orders")
	}
	return orders, nil
}

// UpdateOrder applies a partial update. Unless an explicit total is supplied
// the total is recomputed from the current items in the same transaction.
func (s *OrderService) UpdateOrder(ctx context.Context, id uint, in OrderUpdate) (*models.Order, error) {
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalidf("invalid order status %q", *in.Status)
	}
	if in.TotalAmount != nil && *in.TotalAmount < 0 {
		return nil, apperr.Invalidf("total_amount must not be negative")
	}

	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.LockByID[models.Order](tx, id, "order"); err != nil {
			return err
		}
		if err := checkOrderRefs(tx, in.CustomerID, in.TableID, in.WaiterID); err != nil {
			return err
		}

		fields := map[string]any{}
		if in.CustomerID != nil {
			fields["customer_id"] = *in.CustomerID
		}
		if in.TableID != nil {
			fields["table_id"] = *in.TableID
		}
		if in.WaiterID != nil {
			fields["waiter_id"] = *in.WaiterID
		}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if in.TotalAmount != nil {
			fields["total_amount_cents"] = *in.TotalAmount
		} else {
			total, err := sumItems(tx, id)
			if err != nil {
				return err
			}
			fields["total_amount_cents"] = total
		}
		if err := tx.Model(&models.Order{}).Where("id = ?", id).Updates(fields).Error; err != nil {
			return store.Translate(err, "updating order %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetOrder(ctx, id)
}

// CalculateTotal sums quantity × current menu price over the order's items.
// Lines whose menu item no longer exists contribute nothing.
func (s *OrderService) CalculateTotal(ctx context.Context, orderID uint) (models.Money, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.requireOrder(db, orderID); err != nil {
		return 0, err
	}
	return sumItems(db, orderID)
}

// DeleteOrder removes the order together with its items, payments and feedback.
func (s *OrderService) DeleteOrder(ctx context.Context, id uint) (*models.Order, error) {
	order, err := s.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	err = store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.LockByID[models.Order](tx, id, "order"); err != nil {
			return err
		}
		for _, child := range []any{&models.Feedback{}, &models.Payment{}, &models.OrderItem{}} {
			if err := tx.Where("order_id = ?", id).Delete(child).Error; err != nil {
				return store.Translate(err, "deleting children of order %d", id)
			}
		}
		if err := tx.Delete(&models.Order{}, id).Error; err != nil {
			return store.Translate(err, "deleting order %d", id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logrus.WithField("order_id", id).Info("order deleted")
	return order, nil
}

// SetOrderStatus moves the order to any status in the enumeration.
func (s *OrderService) SetOrderStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.requireOrder(db, id); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Invalidf("invalid order status %q", status)
	}
	if err := db.Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error; err != nil {
		return nil, store.Translate(err, "updating order %d status", id)
	}
	return s.GetOrder(ctx, id)
}

func (s *OrderService) GetOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	return s.items.Get(ctx, id)
}

func (s *OrderService) ListOrderItems(ctx context.Context, orderID uint) ([]models.OrderItem, error) {
	if _, err := s.requireOrder(s.db.WithContext(ctx), orderID); err != nil {
		return nil, err
	}
	return s.items.List(ctx, store.Filters{"order_id": orderID}, "id", store.Page{})
}

// AddOrderItem appends a line and persists the new order total atomically.
func (s *OrderService) AddOrderItem(ctx context.Context, orderID uint, in OrderItemInput) (*models.OrderItem, error) {
	if err := normalizeItem(&in); err != nil {
		return nil, err
	}
	var item *models.OrderItem
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		if _, err := store.LockByID[models.Order](tx, orderID, "order"); err != nil {
			return err
		}
		var err error
		if item, err = insertItem(tx, orderID, in); err != nil {
			return err
		}
		_, err = persistTotal(tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateOrderItem changes a line and always re-persists the parent total.
func (s *OrderService) UpdateOrderItem(ctx context.Context, id uint, in OrderItemUpdate) (*models.OrderItem, error) {
	if in.Quantity != nil && *in.Quantity < 1 {
		return nil, apperr.Invalidf("quantity must be at least 1")
	}
	if in.Status != nil && !in.Status.Valid() {
		return nil, apperr.Invalidf("invalid order item status %q", *in.Status)
	}

	var updated *models.OrderItem
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		current, err := items.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := store.LockByID[models.Order](tx, current.OrderID, "order"); err != nil {
			return err
		}

		fields := map[string]any{}
		if in.MenuItemID != nil {
			if err := requireMenuItem(tx, *in.MenuItemID); err != nil {
				return err
			}
			fields["menu_item_id"] = *in.MenuItemID
		}
		if in.Quantity != nil {
			fields["quantity"] = *in.Quantity
		}
		if in.SpecialRequest != nil {
			fields["special_request"] = *in.SpecialRequest
		}
		if in.Status != nil {
			fields["status"] = *in.Status
		}
		if updated, err = items.Update(ctx, id, fields); err != nil {
			return err
		}
		_, err = persistTotal(tx, current.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteOrderItem removes a line and re-persists the parent total.
func (s *OrderService) DeleteOrderItem(ctx context.Context, id uint) (*models.OrderItem, error) {
	var deleted *models.OrderItem
	err := store.Tx(ctx, s.db, func(tx *gorm.DB) error {
		items := s.items.WithTx(tx)
		current, err := items.Get(ctx, id)
		if err != nil {
			return err
		}
		if _, err := store.LockByID[models.Order](tx, current.OrderID, "order"); err != nil {
			return err
		}
		if deleted, err = items.Delete(ctx, id); err != nil {
			return err
		}
		_, err = persistTotal(tx, current.OrderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

// SetOrderItemStatus changes one line's kitchen status. Totals are unaffected.
func (s *OrderService) SetOrderItemStatus(ctx context.Context, id uint, status models.OrderItemStatus) (*models.OrderItem, error) {
	if !status.Valid() {
		return nil, apperr.Invalidf("invalid order item status %q", status)
	}
	return s.items.Update(ctx, id, map[string]any{"status": status})
}

// BatchUpdateItemStatus sets every line of the order to status in one
// statement. The order's own status is left alone.
func (s *OrderService) BatchUpdateItemStatus(ctx context.Context, orderID uint, status models.OrderItemStatus) ([]models.OrderItem, error) {
	db := s.db.WithContext(ctx)
	if _, err := s.requireOrder(db, orderID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, apperr.Invalidf("invalid order item status %q", status)
	}
	if err := db.Model(&models.OrderItem{}).Where("order_id = ?", orderID).Update("status", status).Error; err != nil {
		return nil, store.Translate(err, "updating items of order %d", orderID)
	}
	return s.items.List(ctx, store.Filters{"order_id": orderID}, "id", store.Page{})
}

func (s *OrderService) requireOrder(db *gorm.DB, id uint) (*models.Order, error) {
	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		return nil, store.Translate(err, "order %d not found", id)
	}
	return &order, nil
}

func normalizeItem(in *OrderItemInput) error {
	if in.MenuItemID == 0 {
		return apperr.Invalidf("menu_item_id is required")
	}
	if in.Quantity < 1 {
		return apperr.Invalidf("quantity must be at least 1")
	}
	if in.Status == "" {
		in.Status = models.ItemPending
	}
	if !in.Status.Valid() {
		return apperr.Invalidf("invalid order item status %q", in.Status)
	}
	return nil
}

func insertItem(tx *gorm.DB, orderID uint, in OrderItemInput) (*models.OrderItem, error) {
	if err := requireMenuItem(tx, in.MenuItemID); err != nil {
		return nil, err
	}
	item := &models.OrderItem{
		OrderID:        orderID,
		MenuItemID:     in.MenuItemID,
		Quantity:       in.Quantity,
		SpecialRequest: in.SpecialRequest,
		Status:         in.Status,
	}
	if err := tx.Create(item).Error; err != nil {
		return nil, store.Translate(err, "creating order item")
	}
	return item, nil
}

// sumItems is the single definition of an order total.
func sumItems(tx *gorm.DB, orderID uint) (models.Money, error) {
	var total int64
	err := tx.Model(&models.OrderItem{}).
		Select("CAST(COALESCE(SUM(order_items.quantity * COALESCE(menu_items.price_cents, 0)), 0) AS BIGINT)").
		Joins("LEFT JOIN menu_items ON menu_items.id = order_items.menu_item_id").
		Where("order_items.order_id = ?", orderID).
		Scan(&total).Error
	if err != nil {
		return 0, store.Translate(err, "computing total of order %d", orderID)
	}
	return models.Money(total), nil
}

func persistTotal(tx *gorm.DB, orderID uint) (models.Money, error) {
	total, err := sumItems(tx, orderID)
	if err != nil {
		return 0, err
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).Update("total_amount_cents", total).Error; err != nil {
		return 0, store.Translate(err, "saving total of order %d", orderID)
	}
	return total, nil
}

func requireMenuItem(tx *gorm.DB, id uint) error {
	return requireRow(tx, &models.MenuItem{}, id, "menu item")
}

func checkOrderRefs(tx *gorm.DB, customerID, tableID, waiterID *uint) error {
	if customerID != nil {
		if err := requireRow(tx, &models.Customer{}, *customerID, "customer"); err != nil {
			return err
		}
	}
	if tableID != nil {
		if err := requireRow(tx, &models.Table{}, *tableID, "table"); err != nil {
			return err
		}
	}
	if waiterID != nil {
		if err := requireRow(tx, &models.Staff{}, *waiterID, "staff"); err != nil {
			return err
		}
	}
	return nil
}

func requireRow(tx *gorm.DB, model any, id uint, name string) error {
	var n int64
	if err := tx.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return store.Translate(err, "checking %s %d", name, id)
	}
	if n == 0 {
		return apperr.NotFoundf("%s %d not found", name, id)
	}
	return nil
}

// detach clears a nullable reference column before its target row is deleted.
func detach(tx *gorm.DB, model any, column string, id uint) error {
	if err := tx.Model(model).Where(column+" = ?", id).Update(column, nil).Error; err != nil {
		return store.Translate(err, "clearing %s references", column)
	}
	return nil
}
