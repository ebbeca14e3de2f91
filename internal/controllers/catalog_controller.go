package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
)

type categoryInput struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

type categoryUpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) ListCategories(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	list, err := h.Catalog.ListCategories(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.Catalog.GetCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) CreateCategory(c *gin.Context) {
	var input categoryInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.Catalog.CreateCategory(c.Request.Context(), services.CategoryInput{Name: input.Name, Description: input.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *Handler) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input categoryUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	cat, err := h.Catalog.UpdateCategory(c.Request.Context(), id, services.CategoryUpdate{Name: input.Name, Description: input.Description})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cat, err := h.Catalog.DeleteCategory(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

type menuItemInput struct {
	CategoryID  uint          `json:"category_id" binding:"required"`
	Name        string        `json:"name" binding:"required"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price" binding:"required"`
	IsAvailable *bool         `json:"is_available"`
	ImageURL    *string       `json:"image_url"`
}

type menuItemUpdateInput struct {
	CategoryID  *uint         `json:"category_id"`
	Name        *string       `json:"name"`
	Description *string       `json:"description"`
	Price       *models.Money `json:"price"`
	IsAvailable *bool         `json:"is_available"`
	ImageURL    *string       `json:"image_url"`
}

// ListMenuItems supports ?category_id= and ?available_only=true.
func (h *Handler) ListMenuItems(c *gin.Context) {
	page, ok := pageQuery(c)
	if !ok {
		return
	}
	categoryID, ok := optionalUintQuery(c, "category_id")
	if !ok {
		return
	}
	availableOnly, _ := strconv.ParseBool(c.DefaultQuery("available_only", "false"))

	items, err := h.Catalog.ListMenuItems(c.Request.Context(), services.MenuFilter{
		CategoryID:    categoryID,
		AvailableOnly: availableOnly,
		Page:          page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) GetMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Catalog.GetMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) CreateMenuItem(c *gin.Context) {
	var input menuItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Catalog.CreateMenuItem(c.Request.Context(), services.MenuItemInput{
		CategoryID:  input.CategoryID,
		Name:        input.Name,
		Description: input.Description,
		Price:       *input.Price,
		IsAvailable: input.IsAvailable,
		ImageURL:    input.ImageURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (h *Handler) UpdateMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var input menuItemUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	item, err := h.Catalog.UpdateMenuItem(c.Request.Context(), id, services.MenuItemUpdate(input))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) ToggleMenuItemAvailability(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Catalog.ToggleAvailability(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *Handler) DeleteMenuItem(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	item, err := h.Catalog.DeleteMenuItem(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}
