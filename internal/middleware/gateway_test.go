package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/models"
)

type fakeStaff map[uint]models.Staff

func (f fakeStaff) Get(_ context.Context, id uint) (*models.Staff, error) {
	s, ok := f[id]
	if !ok {
		return nil, apperr.NotFoundf("staff %d not found", id)
	}
	return &s, nil
}

const (
	managerID uint = 1
	waiterID  uint = 2
	chefID    uint = 3
)

func newTestGateway(t *testing.T) (*gin.Engine, *Credentials) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	creds := NewCredentials("gateway-secret", time.Hour)
	staff := fakeStaff{
		managerID: {ID: managerID, Role: models.RoleManager},
		waiterID:  {ID: waiterID, Role: models.RoleWaiter},
		chefID:    {ID: chefID, Role: models.RoleChef},
	}
	policy := NewPolicy()
	gw := NewGateway(policy, creds, staff, false)

	r := gin.New()
	r.Use(gw.Handler())

	ok := func(c *gin.Context) {
		id, found := IdentityFrom(c)
		fromCtx, _ := IdentityFromContext(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"staff_id": id.StaffID, "found": found, "ctx_staff_id": fromCtx.StaffID})
	}
	route := func(method, path string, rule Rule) {
		r.Handle(method, path, ok)
		policy.Set(method, path, rule)
	}
	route(http.MethodGet, "/health", Rule{Access: Public})
	route(http.MethodGet, "/api/v1/menu-items/:id", Rule{Access: PublicRead})
	route(http.MethodDelete, "/api/v1/menu-items/:id", Rule{ManagerOnly: true, Waiter: true})
	route(http.MethodGet, "/api/v1/tables", Rule{Waiter: true})
	route(http.MethodGet, "/api/v1/staff", Rule{ManagerOnly: true})
	route(http.MethodGet, "/api/v1/feedback/statistics", Rule{})
	route(http.MethodGet, "/dashboard", Rule{})
	r.GET("/api/v1/unlisted", ok)

	return r, creds
}

func do(r http.Handler, method, path string, mutate ...func(*http.Request)) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for _, m := range mutate {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func bearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func cookie(token string) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(&http.Cookie{Name: CookieName, Value: token}) }
}

func issue(t *testing.T, creds *Credentials, id uint) string {
	t.Helper()
	token, err := creds.Issue(id, 0)
	require.NoError(t, err)
	return token
}

func TestPublicRoutesSkipCredentials(t *testing.T) {
	r, _ := newTestGateway(t)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/health").Code)
	// garbage credentials are never parsed on public routes
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/menu-items/3", bearer("garbage")).Code)
}

func TestMissingCredential(t *testing.T) {
	r, _ := newTestGateway(t)

	w := do(r, http.MethodGet, "/api/v1/tables")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error": "not authenticated"}`, w.Body.String())

	page := do(r, http.MethodGet, "/dashboard")
	assert.Equal(t, http.StatusFound, page.Code)
	assert.Equal(t, LoginPath, page.Header().Get("Location"))
}

func TestExpiredCredentialClearsCookie(t *testing.T) {
	r, creds := newTestGateway(t)
	expired, err := creds.sign(managerID, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	w := do(r, http.MethodGet, "/api/v1/tables", cookie(expired))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, CookieName+"=;"), setCookie)
	assert.Contains(t, setCookie, "Max-Age=0")

	page := do(r, http.MethodGet, "/dashboard", bearer(expired))
	assert.Equal(t, http.StatusFound, page.Code)
}

func TestUnknownSubjectIsUnauthenticated(t *testing.T) {
	r, creds := newTestGateway(t)

	w := do(r, http.MethodGet, "/api/v1/tables", bearer(issue(t, creds, 99)))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWaiterAllowList(t *testing.T) {
	r, creds := newTestGateway(t)
	token := issue(t, creds, waiterID)

	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/tables", bearer(token)).Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/feedback/statistics", bearer(token)).Code)
	// allow-listed for the waiter, but still a manager-only catalog mutation
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodDelete, "/api/v1/menu-items/5", bearer(token)).Code)
}

func TestManagerOnly(t *testing.T) {
	r, creds := newTestGateway(t)

	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/staff", bearer(issue(t, creds, chefID))).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodDelete, "/api/v1/menu-items/5", bearer(issue(t, creds, managerID))).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/feedback/statistics", bearer(issue(t, creds, chefID))).Code)
}

func TestUnknownRouteFailsClosed(t *testing.T) {
	r, creds := newTestGateway(t)

	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodGet, "/api/v1/unlisted").Code)
	assert.Equal(t, http.StatusForbidden, do(r, http.MethodGet, "/api/v1/unlisted", bearer(issue(t, creds, waiterID))).Code)
	assert.Equal(t, http.StatusOK, do(r, http.MethodGet, "/api/v1/unlisted", bearer(issue(t, creds, chefID))).Code)
}

func TestIdentityAttachedFromCookie(t *testing.T) {
	r, creds := newTestGateway(t)

	w := do(r, http.MethodGet, "/api/v1/tables", cookie(issue(t, creds, chefID)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"staff_id": 3, "found": true, "ctx_staff_id": 3}`, w.Body.String())
}

func TestHeaderWinsOverCookie(t *testing.T) {
	r, creds := newTestGateway(t)

	w := do(r, http.MethodGet, "/api/v1/staff", bearer(issue(t, creds, managerID)), cookie(issue(t, creds, chefID)))
	assert.Equal(t, http.StatusOK, w.Code)
}
