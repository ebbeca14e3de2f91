package routes

// CatalogRoutes: anyone may browse, only Managers may change the catalog.
func CatalogRoutes(api registrar, d Dependencies) {
	h := d.Handler
	cached := d.Cache.Middleware()

	categories := api.Group("/categories")
	{
		categories.GET("", publicRead, cached, h.ListCategories)
		categories.GET("/:id", publicRead, cached, h.GetCategory)
		categories.POST("", manager, h.CreateCategory)
		categories.PUT("/:id", manager, h.UpdateCategory)
		categories.DELETE("/:id", manager, h.DeleteCategory)
	}

	menu := api.Group("/menu-items")
	{
		menu.GET("", publicRead, cached, h.ListMenuItems)
		menu.GET("/:id", publicRead, cached, h.GetMenuItem)
		menu.POST("", manager, h.CreateMenuItem)
		menu.PUT("/:id", manager, h.UpdateMenuItem)
		menu.PUT("/:id/toggle-availability", manager, h.ToggleMenuItemAvailability)
		menu.DELETE("/:id", manager, h.DeleteMenuItem)
	}
}
