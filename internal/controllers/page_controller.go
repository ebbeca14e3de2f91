package controllers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/middleware"
)

var loginPage = template.Must(template.New("login").Parse(`<!doctype html>
<html><head><title>Restaurant POS - Login</title></head>
<body>
<h1>Sign in</h1>
{{if .Error}}<p class="error">{{.Error}}</p>{{end}}
<form method="post" action="/login">
<input name="username" placeholder="Username" autocomplete="username">
<input name="password" type="password" placeholder="Password" autocomplete="current-password">
<button type="submit">Sign in</button>
</form>
</body></html>`))

// Templates are installed on the engine with SetHTMLTemplate.
func Templates() *template.Template { return loginPage }

func renderLogin(c *gin.Context, status int, errMsg string) {
	c.HTML(status, "login", gin.H{"Error": errMsg})
}

func (h *Handler) LoginPage(c *gin.Context) {
	renderLogin(c, http.StatusOK, "")
}

// LoginSubmit handles the browser form: cookie on success, form again on failure.
func (h *Handler) LoginSubmit(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		renderLogin(c, http.StatusBadRequest, "Username and password are required")
		return
	}
	member, err := h.Staff.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		renderLogin(c, http.StatusUnauthorized, "Incorrect username or password")
		return
	}
	if _, err := h.issueSession(c, member); err != nil {
		respondError(c, err)
		return
	}
	c.Redirect(http.StatusFound, "/dashboard")
}

func (h *Handler) LogoutPage(c *gin.Context) {
	h.Gateway.ClearCookie(c)
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

func (h *Handler) Root(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LoginPath)
}

// DashboardPage serves the dashboard figures to signed-in browsers.
func (h *Handler) DashboardPage(c *gin.Context) {
	h.DashboardStats(c)
}

func (h *Handler) DashboardStats(c *gin.Context) {
	stats, err := h.Dashboard.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
