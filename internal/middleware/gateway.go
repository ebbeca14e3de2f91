package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/metrics"
	"restaurant_pos/internal/models"
)

const (
	// CookieName carries the access token for browser sessions.
	CookieName = "access_token"
	LoginPath  = "/login"
	apiPrefix  = "/api/"
)

type Access int

const (
	// Protected is the zero value so a route registered without a rule fails closed.
	Protected Access = iota
	Public
	// PublicRead is anonymous for GET/HEAD and Protected otherwise.
	PublicRead
)

// Rule is the access policy of one route.
type Rule struct {
	Access      Access
	ManagerOnly bool
	// Waiter puts the route on the allow-list for the restricted Waiter role.
	Waiter bool
}

// Policy maps "METHOD /route/:pattern" to its Rule. It is filled while routes
// are registered and read-only afterwards.
type Policy struct {
	mu    sync.RWMutex
	rules map[string]Rule
}

func NewPolicy() *Policy {
	return &Policy{rules: make(map[string]Rule)}
}

func (p *Policy) Set(method, route string, rule Rule) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rules[method+" "+route] = rule
}

// Lookup returns the rule for a route; unknown routes are Protected with no
// waiter access.
func (p *Policy) Lookup(method, route string) (Rule, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if method == http.MethodHead {
		if r, ok := p.rules[http.MethodGet+" "+route]; ok {
			return r, true
		}
	}
	r, ok := p.rules[method+" "+route]
	return r, ok
}

// StaffResolver loads the staff member a verified token refers to.
type StaffResolver interface {
	Get(ctx context.Context, id uint) (*models.Staff, error)
}

type Gateway struct {
	policy       *Policy
	creds        *Credentials
	staff        StaffResolver
	cookieSecure bool
}

func NewGateway(policy *Policy, creds *Credentials, staff StaffResolver, cookieSecure bool) *Gateway {
	return &Gateway{policy: policy, creds: creds, staff: staff, cookieSecure: cookieSecure}
}

// Handler classifies the matched route, authenticates the caller and applies
// the role checks before any handler runs.
func (g *Gateway) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		rule, _ := g.policy.Lookup(c.Request.Method, c.FullPath())

		if rule.Access == Public || (rule.Access == PublicRead && isRead(c.Request.Method)) {
			metrics.GatewayDecision("anonymous")
			c.Next()
			return
		}

		token, fromCookie := bearerToken(c)
		if token == "" {
			g.deny(c, apperr.Unauthenticatedf("not authenticated"))
			return
		}

		v := g.creds.Verify(token)
		if !v.Valid {
			g.ClearCookie(c)
			msg := "could not validate credentials"
			if v.Expired {
				msg = "token has expired"
			}
			logrus.WithFields(logrus.Fields{"path": c.Request.URL.Path, "cookie": fromCookie, "expired": v.Expired}).Debug("rejected credential")
			g.deny(c, apperr.Unauthenticatedf("%s", msg))
			return
		}

		member, err := g.staff.Get(c.Request.Context(), v.Subject)
		if err != nil {
			if !apperr.Is(err, apperr.NotFound) {
				logrus.WithError(err).Warn("resolving staff for credential")
			}
			g.ClearCookie(c)
			g.deny(c, apperr.Unauthenticatedf("could not validate credentials"))
			return
		}

		if member.Role.Restricted() && !rule.Waiter {
			g.deny(c, apperr.Forbiddenf("not enough permissions"))
			return
		}
		if rule.ManagerOnly && member.Role != models.RoleManager {
			g.deny(c, apperr.Forbiddenf("not enough permissions"))
			return
		}

		SetIdentity(c, models.Identity{StaffID: member.ID, Role: member.Role})
		metrics.GatewayDecision("allowed")
		c.Next()
	}
}

// deny answers API paths with a JSON error and page paths with a redirect to
// the login form.
func (g *Gateway) deny(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	switch kind {
	case apperr.Forbidden:
		metrics.GatewayDecision("forbidden")
	default:
		metrics.GatewayDecision("unauthenticated")
	}

	if kind == apperr.Unauthenticated && !strings.HasPrefix(c.Request.URL.Path, apiPrefix) {
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
		return
	}
	if kind == apperr.Unauthenticated {
		c.Header("WWW-Authenticate", "Bearer")
	}
	c.AbortWithStatusJSON(kind.Status(), gin.H{"error": apperr.PublicMessage(err)})
}

// SetCookie stores a freshly issued token for browser clients.
func (g *Gateway) SetCookie(c *gin.Context, token string, maxAgeSeconds int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, token, maxAgeSeconds, "/", "", g.cookieSecure, true)
}

func (g *Gateway) ClearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, "", -1, "/", "", g.cookieSecure, true)
}

// bearerToken prefers the Authorization header over the cookie.
func bearerToken(c *gin.Context) (token string, fromCookie bool) {
	if h := c.GetHeader("Authorization"); h != "" {
		scheme, value, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), false
		}
	}
	if v, err := c.Cookie(CookieName); err == nil && v != "" {
		return strings.TrimPrefix(v, "Bearer "), true
	}
	return "", false
}

func isRead(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
