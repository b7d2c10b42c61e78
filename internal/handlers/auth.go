package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
)

// SignUpPage renders the registration form.
func (h *Handlers) SignUpPage(c *gin.Context) {
	c.HTML(http.StatusOK, "signup.tmpl", gin.H{
		"Username": "",
		"Email":    "",
		"User":     auth.CurrentUser(c),
	})
}

// SignUp registers a new user and signs them in.
func (h *Handlers) SignUp(c *gin.Context) {
	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")

	user, err := h.auth.Register(username, email, password)
	if err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) || errors.Is(err, auth.ErrEmailTaken) {
			c.HTML(http.StatusOK, "signup.tmpl", gin.H{
				"Error":    err.Error(),
				"Username": username,
				"Email":    email,
			})
			return
		}
		c.HTML(http.StatusOK, "signup.tmpl", gin.H{
			"Error":    "Could not create the account.",
			"Username": username,
			"Email":    email,
		})
		return
	}

	if err := h.auth.SignIn(c, user); err != nil {
		h.fail(c, "failed to start session", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// LoginPage renders the login form, carrying the next parameter through.
func (h *Handlers) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.tmpl", gin.H{
		"Next":     c.Query("next"),
		"Username": "",
		"User":     auth.CurrentUser(c),
	})
}

// Login authenticates the submitted credentials and redirects to the next
// path, or the index.
func (h *Handlers) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")

	user, err := h.auth.Authenticate(username, password)
	if err != nil {
		c.HTML(http.StatusOK, "login.tmpl", gin.H{
			"Error":    "Invalid username or password.",
			"Username": username,
			"Next":     c.PostForm("next"),
		})
		return
	}

	if err := h.auth.SignIn(c, user); err != nil {
		h.fail(c, "failed to start session", err)
		return
	}

	c.Redirect(http.StatusFound, safeNextPath(c.PostForm("next")))
}

// Logout clears the session and returns to the index.
func (h *Handlers) Logout(c *gin.Context) {
	if err := h.auth.SignOut(c); err != nil {
		h.fail(c, "failed to clear session", err)
		return
	}
	c.Redirect(http.StatusFound, "/")
}

// safeNextPath accepts only site-local paths for the post-login redirect.
func safeNextPath(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
