package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
)

type orderItemInput struct {
	MenuItemID     uint                   `json:"menu_item_id" binding:"required"`
	Quantity       *int                   `json:"quantity"`
	SpecialRequest *string                `json:"special_request"`
	Status         models.OrderItemStatus `json:"status"`
}

func (in orderItemInput) toService() services.OrderItemInput {
	qty := 1
	if in.Quantity != nil {
		qty = *in.Quantity
	}
	return services.OrderItemInput{
		MenuItemID:     in.MenuItemID,
		Quantity:       qty,
		SpecialRequest: in.SpecialRequest,
		Status:         in.Status,
	}
}

type createOrderInput struct {
	CustomerID *uint              `json:"customer_id"`
	TableID    *uint              `json:"table_id"`
	WaiterID   *uint              `json:"waiter_id"`
	Status     models.OrderStatus `json:"status"`
	Items      []orderItemInput   `json:"order_items" binding:"dive"`
}

type updateOrderInput struct {
	CustomerID  *uint               `json:"customer_id"`
	TableID     *uint               `json:"table_id"`
	WaiterID    *uint               `json:"waiter_id"`
	Status      *models.OrderStatus `json:"status"`
	TotalAmount *models.Money       `json:"total_amount"`
}

type statusInput struct {
	Status string `json:"status" binding:"required"`
}

// ListOrders supports ?status=, ?customer_id=, ?table_id= and ?waiter_id=.
func (h *Handler) ListOrders(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	filter := services.OrderFilter{Page: page}
	if s := c.Query("status"); s != "" {
		st := models.OrderStatus(s)
		filter.Status = &st
	}
	if filter.CustomerID, ok = optionalUintQuery(c, "customer_id"); !ok {
		return
	}
	if filter.TableID, ok = optionalUintQuery(c, "table_id"); !ok {
		return
	}
	if filter.WaiterID, ok = optionalUintQuery(c, "waiter_id"); !ok {
		return
	}

	orders, err := h.Orders.ListOrders(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// CreateOrder defaults the waiter to the calling staff member.
func (h *Handler) CreateOrder(c *gin.Context) {
	var input createOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	if input.WaiterID == nil {
		self := caller(c).StaffID
		input.WaiterID = &self
	}

	items := make([]services.OrderItemInput, 0, len(input.Items))
	for _, it := range input.Items {
		items = append(items, it.toService())
	}
	order, err := h.Orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		CustomerID: input.CustomerID,
		TableID:    input.TableID,
		WaiterID:   input.WaiterID,
		Status:     input.Status,
		Items:      items,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input updateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.Orders.UpdateOrder(c.Request.Context(), id, services.OrderUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) SetOrderStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	order, err := h.Orders.SetOrderStatus(c.Request.Context(), id, models.OrderStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	order, err := h.Orders.DeleteOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
