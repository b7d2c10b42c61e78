package auth

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/models"
)

// LoadUser resolves the session cookie into the current user and puts it in
// the request context. Anonymous requests pass through untouched.
func (s *Service) LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := s.sessionUserID(c.Request); userID != "" {
			var user models.User
			if err := database.DB.First(&user, "id = ?", userID).Error; err == nil {
				c.Set("user", &user)
				c.Set("user_id", user.ID)
			}
		}
		c.Next()
	}
}

// RequireAuth guards a route group: anonymous requests are redirected to the
// login page with the originally requested path preserved as ?next=.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUserID(c) == "" {
			LoginRedirect(c)
			return
		}
		c.Next()
	}
}

// LoginRedirect sends the request to the login page with a next parameter.
func LoginRedirect(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, "/auth/login/?next="+next)
	c.Abort()
}

// CurrentUserID returns the authenticated user's id, or "" for anonymous.
func CurrentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// CurrentUser returns the authenticated user loaded by LoadUser, or nil.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get("user"); ok {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}
