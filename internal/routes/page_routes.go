package routes

func PageRoutes(r registrar, d Dependencies) {
	h := d.Handler
	r.GET("/", public, h.Root)
	r.GET("/login", public, h.LoginPage)
	r.POST("/login", public, d.Limiter.Middleware(), h.LoginSubmit)
	r.GET("/logout", public, h.LogoutPage)
	r.GET("/dashboard", waiter, h.DashboardPage)
}
