package routes

func OrderRoutes(api registrar, d Dependencies) {
	h := d.Handler
	orders := api.Group("/orders")
	{
		orders.GET("", waiter, h.ListOrders)
		orders.POST("", waiter, h.CreateOrder)
		orders.GET("/:id", waiter, h.GetOrder)
		orders.PUT("/:id", waiter, h.UpdateOrder)
		orders.PUT("/:id/status", waiter, h.SetOrderStatus)
		orders.DELETE("/:id", manager, h.DeleteOrder)
	}

	items := api.Group("/order-items")
	{
		items.POST("", waiter, h.CreateOrderItem)
		items.GET("/by-order/:order_id", waiter, h.ListOrderItems)
		items.PUT("/by-order/:order_id/status", waiter, h.BatchUpdateItemStatus)
		items.GET("/:id", waiter, h.GetOrderItem)
		items.PUT("/:id", waiter, h.UpdateOrderItem)
		items.PUT("/:id/status", waiter, h.SetOrderItemStatus)
		items.DELETE("/:id", waiter, h.DeleteOrderItem)
	}
}

func PaymentRoutes(api registrar, d Dependencies) {
	h := d.Handler
	payments := api.Group("/payments")
	{
		payments.GET("", manager, h.ListPayments)
		payments.POST("", waiter, h.RecordPayment)
		payments.GET("/by-order/:order_id", waiter, h.ListPaymentsByOrder)
		payments.GET("/check-paid/:order_id", waiter, h.CheckPaid)
		payments.GET("/:id", waiter, h.GetPayment)
		payments.PUT("/:id", manager, h.UpdatePayment)
		payments.DELETE("/:id", manager, h.DeletePayment)
	}
}
