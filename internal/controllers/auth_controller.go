package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurant_pos/internal/models"
)

type loginInput struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// Login accepts an OAuth2-style form post.
func (h *Handler) Login(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBind(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.login(c, input)
}

func (h *Handler) LoginJSON(c *gin.Context) {
	var input loginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	h.login(c, input)
}

func (h *Handler) login(c *gin.Context, input loginInput) {
	member, err := h.Staff.Authenticate(c.Request.Context(), input.Username, input.Password)
	if err != nil {
		c.Header("WWW-Authenticate", "Bearer")
		respondError(c, err)
		return
	}
	token, err := h.issueSession(c, member)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// issueSession signs a token and stores it in the session cookie.
func (h *Handler) issueSession(c *gin.Context, member *models.Staff) (string, error) {
	token, err := h.Credentials.Issue(member.ID, 0)
	if err != nil {
		return "", err
	}
	h.Gateway.SetCookie(c, token, int(h.Credentials.TTL().Seconds()))
	return token, nil
}

func (h *Handler) Logout(c *gin.Context) {
	h.Gateway.ClearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// UserInfo returns the authenticated staff member.
func (h *Handler) UserInfo(c *gin.Context) {
	member, err := h.Staff.Get(c.Request.Context(), caller(c).StaffID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, member)
}
