package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
)

type staffInput struct {
	Name          string      `json:"name" binding:"required"`
	Role          models.Role `json:"role" binding:"required"`
	ContactNumber *string     `json:"contact_number"`
	Username      string      `json:"username" binding:"required"`
	Password      string      `json:"password" binding:"required"`
}

type staffUpdateInput struct {
	Name          *string      `json:"name"`
	Role          *models.Role `json:"role"`
	ContactNumber *string      `json:"contact_number"`
	Username      *string      `json:"username"`
	Password      *string      `json:"password"`
}

func (h *Handler) ListStaff(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Staff.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) CreateStaff(c *gin.Context) {
	var input staffInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	member, err := h.Staff.Create(c.Request.Context(), services.StaffInput(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, member)
}

func (h *Handler) Me(c *gin.Context) {
	h.UserInfo(c)
}

// GetStaff is open to the staff member themselves and to Managers.
func (h *Handler) GetStaff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	actor := caller(c)
	if actor.StaffID != id && !actor.IsManager() {
		respondError(c, apperr.Forbiddenf("not enough permissions"))
		return
	}
	member, err := h.Staff.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) UpdateStaff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input staffUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	member, err := h.Staff.Update(c.Request.Context(), caller(c), id, services.StaffUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}

func (h *Handler) DeleteStaff(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	member, err := h.Staff.Delete(c.Request.Context(), caller(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
