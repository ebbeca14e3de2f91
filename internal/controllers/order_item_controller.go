package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
)

type addOrderItemInput struct {
	OrderID uint `json:"order_id" binding:"required"`
	orderItemInput
}

type updateOrderItemInput struct {
	MenuItemID     *uint                   `json:"menu_item_id"`
	Quantity       *int                    `json:"quantity"`
	SpecialRequest *string                 `json:"special_request"`
	Status         *models.OrderItemStatus `json:"status"`
}

func (h *Handler) ListOrderItems(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	items, err := h.Orders.ListOrderItems(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetOrderItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Orders.GetOrderItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateOrderItem(c *gin.Context) {
	var input addOrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Orders.AddOrderItem(c.Request.Context(), input.OrderID, input.orderItemInput.toService())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateOrderItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input updateOrderItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Orders.UpdateOrderItem(c.Request.Context(), id, services.OrderItemUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteOrderItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Orders.DeleteOrderItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) SetOrderItemStatus(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Orders.SetOrderItemStatus(c.Request.Context(), id, models.OrderItemStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// BatchUpdateItemStatus sets every line of one order to the same status.
func (h *Handler) BatchUpdateItemStatus(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	var input statusInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	items, err := h.Orders.BatchUpdateItemStatus(c.Request.Context(), orderID, models.OrderItemStatus(input.Status))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}
