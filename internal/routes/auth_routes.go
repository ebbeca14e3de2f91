package routes

func AuthRoutes(api registrar, d Dependencies) {
	h := d.Handler
	auth := api.Group("/auth")
	{
		auth.POST("/login", public, d.Limiter.Middleware(), h.Login)
		auth.POST("/login/json", public, d.Limiter.Middleware(), h.LoginJSON)
		auth.POST("/logout", public, h.Logout)
		auth.GET("/user-info", waiter, h.UserInfo)
		auth.POST("/test-token", waiter, h.UserInfo)
	}
}
