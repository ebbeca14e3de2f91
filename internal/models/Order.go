package models

import "time"

type Order struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	CustomerID  *uint       `gorm:"index" json:"customer_id"`
	TableID     *uint       `gorm:"index" json:"table_id"`
	WaiterID    *uint       `gorm:"index" json:"waiter_id"`
	OrderDate   time.Time   `gorm:"not null;index" json:"order_date"`
	Status      OrderStatus `gorm:"size:20;not null;index" json:"status"`
	TotalAmount Money       `gorm:"column:total_amount_cents;not null;default:0" json:"total_amount"`

	Customer *Customer   `gorm:"foreignKey:CustomerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"customer,omitempty"`
	Table    *Table      `gorm:"foreignKey:TableID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"table,omitempty"`
	Waiter   *Staff      `gorm:"foreignKey:WaiterID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"waiter,omitempty"`
	Items    []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"order_items"`
	Payments []Payment   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"-"`
	Feedback []Feedback  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE;" json:"-"`
}

func (Order) TableName() string { return "orders" }

// OrderItem keeps no foreign key to menu_items: a deleted menu item leaves the
// line in place and it prices at zero.
type OrderItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	OrderID        uint            `gorm:"not null;index" json:"order_id"`
	MenuItemID     uint            `gorm:"not null;index" json:"menu_item_id"`
	Quantity       int             `gorm:"not null" json:"quantity"`
	SpecialRequest *string         `json:"special_request"`
	Status         OrderItemStatus `gorm:"size:20;not null" json:"status"`
}

func (OrderItem) TableName() string { return "order_items" }

type Payment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	OrderID     uint          `gorm:"not null;index" json:"order_id"`
	Amount      Money         `gorm:"column:amount_cents;not null" json:"amount"`
	Method      PaymentMethod `gorm:"column:payment_method;size:20;not null" json:"payment_method"`
	PaymentDate time.Time     `gorm:"not null" json:"payment_date"`
}

func (Payment) TableName() string { return "payments" }

type Feedback struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CustomerID   *uint     `gorm:"index" json:"customer_id"`
	OrderID      uint      `gorm:"not null;index" json:"order_id"`
	Rating       int       `gorm:"not null;check:chk_feedback_rating,rating >= 1 AND rating <= 5" json:"rating"`
	Comment      *string   `json:"comment"`
	FeedbackDate time.Time `gorm:"not null" json:"feedback_date"`
}

func (Feedback) TableName() string { return "feedback" }

// All lists every persisted model in migration order.
func All() []any {
	return []any{
		&Category{}, &MenuItem{}, &Table{}, &Customer{}, &Staff{},
		&Order{}, &OrderItem{}, &Payment{}, &Feedback{},
	}
}
