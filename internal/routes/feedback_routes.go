package routes

func FeedbackRoutes(api registrar, d Dependencies) {
	h := d.Handler
	feedback := api.Group("/feedback")
	{
		feedback.POST("", public, h.CreateFeedback)
		feedback.GET("", manager, h.ListFeedback)
		feedback.GET("/statistics", staff, h.FeedbackStatistics)
		feedback.GET("/by-order/:order_id", staff, h.ListFeedbackByOrder)
		feedback.GET("/:id", staff, h.GetFeedback)
		feedback.PUT("/:id", manager, h.UpdateFeedback)
		feedback.DELETE("/:id", manager, h.DeleteFeedback)
	}
}

func DashboardRoutes(api registrar, d Dependencies) {
	api.GET("/dashboard/stats", waiter, d.Handler.DashboardStats)
}
