package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/services"
)

type tableInput struct {
	Number   string `json:"table_number" binding:"required"`
	Capacity int    `json:"capacity" binding:"required"`
	Status   string `json:"status"`
}

type tableUpdateInput struct {
	Number   *string `json:"table_number"`
	Capacity *int    `json:"capacity"`
	Status   *string `json:"status"`
}

// ListTables supports ?status=available.
func (h *Handler) ListTables(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	var status *string
	if s := c.Query("status"); s != "" {
		status = &s
	}
	tables, err := h.Tables.List(c.Request.Context(), status, page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (h *Handler) GetTable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.Tables.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) CreateTable(c *gin.Context) {
	var input tableInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Tables.Create(c.Request.Context(), services.TableInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, t)
}

func (h *Handler) UpdateTable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input tableUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	t, err := h.Tables.Update(c.Request.Context(), id, services.TableUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

func (h *Handler) DeleteTable(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	t, err := h.Tables.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}
