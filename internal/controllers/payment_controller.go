package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
)

type paymentInput struct {
	OrderID uint                 `json:"order_id" binding:"required"`
	Amount  *models.Money        `json:"amount" binding:"required"`
	Method  models.PaymentMethod `json:"payment_method" binding:"required"`
}

type paymentUpdateInput struct {
	Amount *models.Money         `json:"amount"`
	Method *models.PaymentMethod `json:"payment_method"`
}

func (h *Handler) ListPayments(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Payments.ListPayments(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) ListPaymentsByOrder(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	list, err := h.Payments.ListPaymentsByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// RecordPayment stores the payment; the order is completed as a side effect.
func (h *Handler) RecordPayment(c *gin.Context) {
	var input paymentInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Payments.RecordPayment(c.Request.Context(), services.PaymentInput{
		OrderID: input.OrderID,
		Amount:  *input.Amount,
		Method:  input.Method,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *Handler) GetPayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Payments.GetPayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) UpdatePayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input paymentUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	p, err := h.Payments.UpdatePayment(c.Request.Context(), id, services.PaymentUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	p, err := h.Payments.DeletePayment(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// CheckPaid reports {order_id, total_amount, total_paid, is_fully_paid}.
func (h *Handler) CheckPaid(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	summary, err := h.Payments.Summary(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
