package routes

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/middleware"
)

var (
	public     = middleware.Rule{Access: middleware.Public}
	publicRead = middleware.Rule{Access: middleware.PublicRead}
	// any authenticated role except Waiter
	staff = middleware.Rule{}
	// any authenticated role, Waiter included
	waiter  = middleware.Rule{Waiter: true}
	manager = middleware.Rule{ManagerOnly: true}
)

// registrar registers a gin route and its access rule in one step, so no
// route can exist without a policy entry.
type registrar struct {
	group  *gin.RouterGroup
	policy *middleware.Policy
}

func newRegistrar(group *gin.RouterGroup, policy *middleware.Policy) registrar {
	return registrar{group: group, policy: policy}
}

func (r registrar) Group(relativePath string) registrar {
	return registrar{group: r.group.Group(relativePath), policy: r.policy}
}

func (r registrar) Handle(method, relativePath string, rule middleware.Rule, handlers ...gin.HandlerFunc) {
	r.group.Handle(method, relativePath, handlers...)
	r.policy.Set(method, path.Join(r.group.BasePath(), relativePath), rule)
}

func (r registrar) GET(p string, rule middleware.Rule, h ...gin.HandlerFunc) {
	r.Handle(http.MethodGet, p, rule, h...)
}

func (r registrar) POST(p string, rule middleware.Rule, h ...gin.HandlerFunc) {
	r.Handle(http.MethodPost, p, rule, h...)
}

func (r registrar) PUT(p string, rule middleware.Rule, h ...gin.HandlerFunc) {
	r.Handle(http.MethodPut, p, rule, h...)
}

func (r registrar) DELETE(p string, rule middleware.Rule, h ...gin.HandlerFunc) {
	r.Handle(http.MethodDelete, p, rule, h...)
}
