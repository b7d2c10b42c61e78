package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/middleware"
)

// Index page cache: fixed key prefix, 20 second window.
const (
	IndexCacheKeyPrefix = "index_page"
	IndexCacheTTL       = 20 * time.Second
)

// Reserved first path segments that can never resolve as usernames.
var reservedNames = map[string]struct{}{
	"group":   {},
	"new":     {},
	"follow":  {},
	"auth":    {},
	"media":   {},
	"static":  {},
	"health":  {},
	"metrics": {},
}

// RegisterRoutes wires every view handler into the engine. Profile-shaped
// routes (/{username}/...) share their first segment with the static routes,
// which gin's router tree cannot express, so they are resolved by the
// NoRoute dispatcher.
func (h *Handlers) RegisterRoutes(r *gin.Engine) {
	r.Use(h.auth.LoadUser())

	r.GET("/", middleware.PageCache(h.cache, IndexCacheKeyPrefix, IndexCacheTTL), h.Index)
	r.GET("/group/:slug/", h.GroupPosts)

	r.GET("/new/", auth.RequireAuth(), h.NewPostPage)
	r.POST("/new/", auth.RequireAuth(), h.NewPostSubmit)

	r.GET("/follow/", auth.RequireAuth(), h.FollowIndex)

	authGroup := r.Group("/auth")
	{
		authGroup.GET("/signup/", h.SignUpPage)
		authGroup.POST("/signup/", h.SignUp)
		authGroup.GET("/login/", h.LoginPage)
		authGroup.POST("/login/", h.Login)
		authGroup.GET("/logout/", h.Logout)
	}

	r.NoRoute(h.DispatchDynamic)
}

// DispatchDynamic resolves the username-rooted routes:
//
//	/{username}/                    profile
//	/{username}/follow/             follow the author
//	/{username}/unfollow/           unfollow the author
//	/{username}/{post_id}/          post detail
//	/{username}/{post_id}/edit/     edit own post
//	/{username}/{post_id}/comment/  add a comment
//
// Anything else is the not-found page.
func (h *Handlers) DispatchDynamic(c *gin.Context) {
	path := strings.Trim(c.Request.URL.Path, "/")
	segments := strings.Split(path, "/")

	if path == "" || len(segments) > 3 {
		h.RenderNotFound(c)
		return
	}
	if _, reserved := reservedNames[segments[0]]; reserved {
		h.RenderNotFound(c)
		return
	}

	username := segments[0]
	method := c.Request.Method

	switch {
	case len(segments) == 1:
		if method != http.MethodGet {
			h.RenderNotFound(c)
			return
		}
		h.profile(c, username)

	case len(segments) == 2 && segments[1] == "follow":
		if !h.requireUser(c) {
			return
		}
		h.profileFollow(c, username)

	case len(segments) == 2 && segments[1] == "unfollow":
		if !h.requireUser(c) {
			return
		}
		h.profileUnfollow(c, username)

	case len(segments) == 2:
		if method != http.MethodGet {
			h.RenderNotFound(c)
			return
		}
		h.postView(c, username, segments[1])

	case len(segments) == 3 && segments[2] == "edit":
		if !h.requireUser(c) {
			return
		}
		h.postEdit(c, username, segments[1])

	case len(segments) == 3 && segments[2] == "comment":
		if method != http.MethodPost {
			h.RenderNotFound(c)
			return
		}
		if !h.requireUser(c) {
			return
		}
		h.addComment(c, username, segments[1])

	default:
		h.RenderNotFound(c)
	}
}

// requireUser applies the authentication gate inside the dispatcher, where
// the RequireAuth route middleware cannot run.
func (h *Handlers) requireUser(c *gin.Context) bool {
	if auth.CurrentUserID(c) == "" {
		auth.LoginRedirect(c)
		return false
	}
	return true
}
