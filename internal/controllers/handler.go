package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"restaurant_pos/internal/apperr"
	"restaurant_pos/internal/middleware"
	"restaurant_pos/internal/models"
	"restaurant_pos/internal/services"
	"restaurant_pos/internal/store"
)

const (
	defaultLimit = 100
	maxLimit     = 1000
)

// Handler serves every JSON and page endpoint.
type Handler struct {
	Orders    *services.OrderService
	Payments  *services.PaymentService
	Catalog   *services.CatalogService
	Tables    *services.TableService
	Customers *services.CustomerService
	Staff     *services.StaffService
	Feedback  *services.FeedbackService
	Dashboard *services.DashboardService

	Credentials *middleware.Credentials
	Gateway     *middleware.Gateway
}

// respondError writes err as {"error": msg} with the status of its kind.
func respondError(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	if kind == apperr.Internal {
		middleware.Log(c).WithError(err).Error("request failed")
	} else {
		middleware.Log(c).WithError(err).WithField("kind", kind.String()).Debug("request rejected")
	}
	c.JSON(kind.Status(), gin.H{"error": apperr.PublicMessage(err)})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// idParam parses a positive integer path parameter, answering 400 otherwise.
func idParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return uint(v), true
}

func optionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// pageQuery reads skip/limit with the defaults used across listing endpoints.
func pageQuery(c *gin.Context) (store.Page, bool) {
	skip, err := strconv.Atoi(c.DefaultQuery("skip", "0"))
	if err != nil || skip < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid skip"})
		return store.Page{}, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return store.Page{}, false
	}
	return store.Page{Skip: skip, Limit: min(limit, maxLimit)}, true
}

// caller returns the gateway-resolved identity. Protected routes always have one.
func caller(c *gin.Context) models.Identity {
	id, ok := middleware.IdentityFrom(c)
	if !ok {
		logrus.WithField("path", c.FullPath()).Error("identity missing on protected route")
	}
	return id
}
