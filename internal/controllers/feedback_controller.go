package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/services"
)

type feedbackInput struct {
	OrderID    uint    `json:"order_id" binding:"required"`
	CustomerID *uint   `json:"customer_id"`
	Rating     int     `json:"rating"`
	Comment    *string `json:"comment"`
}

type feedbackUpdateInput struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

// CreateFeedback is public: customers leave feedback without an account.
func (h *Handler) CreateFeedback(c *gin.Context) {
	var input feedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	fb, err := h.Feedback.Create(c.Request.Context(), services.FeedbackInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, fb)
}

func (h *Handler) ListFeedback(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Feedback.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) FeedbackStatistics(c *gin.Context) {
	stats, err := h.Feedback.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) ListFeedbackByOrder(c *gin.Context) {
	orderID, ok := idParam(c, "order_id")
	if !ok {
		return
	}
	list, err := h.Feedback.ListByOrder(c.Request.Context(), orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetFeedback(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fb, err := h.Feedback.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

func (h *Handler) UpdateFeedback(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input feedbackUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	fb, err := h.Feedback.Update(c.Request.Context(), id, services.FeedbackUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}

func (h *Handler) DeleteFeedback(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	fb, err := h.Feedback.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, fb)
}
