package routes

func TableRoutes(api registrar, d Dependencies) {
	h := d.Handler
	tables := api.Group("/tables")
	{
		tables.GET("", waiter, h.ListTables)
		tables.GET("/:id", waiter, h.GetTable)
		tables.POST("", manager, h.CreateTable)
		tables.PUT("/:id", manager, h.UpdateTable)
		tables.DELETE("/:id", manager, h.DeleteTable)
	}
}

func CustomerRoutes(api registrar, d Dependencies) {
	h := d.Handler
	customers := api.Group("/customers")
	{
		customers.GET("", waiter, h.ListCustomers)
		customers.GET("/:id", waiter, h.GetCustomer)
		customers.POST("", waiter, h.CreateCustomer)
		customers.POST("/get-or-create", waiter, h.GetOrCreateCustomer)
		customers.PUT("/:id", waiter, h.UpdateCustomer)
		customers.DELETE("/:id", manager, h.DeleteCustomer)
	}
}

func StaffRoutes(api registrar, d Dependencies) {
	h := d.Handler
	staffGroup := api.Group("/staff")
	{
		staffGroup.GET("", manager, h.ListStaff)
		staffGroup.POST("", manager, h.CreateStaff)
		staffGroup.GET("/me", waiter, h.Me)
		staffGroup.GET("/:id", waiter, h.GetStaff)
		staffGroup.PUT("/:id", waiter, h.UpdateStaff)
		staffGroup.DELETE("/:id", manager, h.DeleteStaff)
	}
}
