package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/logger"
	"github.com/inkpost/inkpost/internal/models"
	"github.com/inkpost/inkpost/internal/pagination"
	"go.uber.org/zap"
)

// profile renders an author's page: their posts, post count, and whether the
// current viewer already follows them.
func (h *Handlers) profile(c *gin.Context, username string) {
	author, err := findUserByUsername(username)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load profile", err)
		return
	}

	following := false
	if viewerID := auth.CurrentUserID(c); viewerID != "" {
		var n int64
		database.DB.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", viewerID, author.ID).
			Count(&n)
		following = n > 0
	}

	requested := pagination.ParsePageNumber(c.Query("page"))

	var posts []models.Post
	query := database.DB.Model(&models.Post{}).
		Preload("Group").
		Where("author_id = ?", author.ID).
		Order("created_at DESC")

	page, err := pagination.Paginate(query, requested, &posts)
	if err != nil {
		h.fail(c, "failed to load profile posts", err)
		return
	}

	c.HTML(http.StatusOK, "profile.tmpl", gin.H{
		"Author":    author,
		"Following": following,
		"Posts":     posts,
		"Page":      page,
		"PostCount": page.TotalItems,
		"User":      auth.CurrentUser(c),
	})
}

// FollowIndex renders the feed: posts authored by anyone the current user
// follows, and nothing else.
func (h *Handlers) FollowIndex(c *gin.Context) {
	userID := auth.CurrentUserID(c)
	requested := pagination.ParsePageNumber(c.Query("page"))

	followed := database.DB.Model(&models.Follow{}).
		Select("author_id").
		Where("user_id = ?", userID)

	var posts []models.Post
	query := database.DB.Model(&models.Post{}).
		Preload("Author").Preload("Group").
		Where("author_id IN (?)", followed).
		Order("created_at DESC")

	page, err := pagination.Paginate(query, requested, &posts)
	if err != nil {
		h.fail(c, "failed to load follow feed", err)
		return
	}

	c.HTML(http.StatusOK, "follow.tmpl", gin.H{
		"Posts": posts,
		"Page":  page,
		"User":  auth.CurrentUser(c),
	})
}

// profileFollow subscribes the current user to an author. Following
// yourself or an author you already follow is a no-op; either way the
// request lands back on the profile page.
func (h *Handlers) profileFollow(c *gin.Context, username string) {
	author, err := findUserByUsername(username)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load author", err)
		return
	}

	userID := auth.CurrentUserID(c)
	if userID != author.ID {
		var n int64
		database.DB.Model(&models.Follow{}).
			Where("user_id = ? AND author_id = ?", userID, author.ID).
			Count(&n)
		if n == 0 {
			follow := models.Follow{UserID: userID, AuthorID: author.ID}
			if err := database.DB.Create(&follow).Error; err != nil {
				// A concurrent follow for the same pair hits the unique
				// index; the edge exists either way.
				logger.Log.Debug("follow insert skipped",
					zap.String("user_id", userID),
					zap.String("author_id", author.ID),
					zap.Error(err),
				)
			}
		}
	}

	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}

// profileUnfollow removes the subscription if present and returns to the
// profile page.
func (h *Handlers) profileUnfollow(c *gin.Context, username string) {
	author, err := findUserByUsername(username)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load author", err)
		return
	}

	userID := auth.CurrentUserID(c)
	if err := database.DB.
		Where("user_id = ? AND author_id = ?", userID, author.ID).
		Delete(&models.Follow{}).Error; err != nil {
		h.fail(c, "failed to remove follow", err)
		return
	}

	c.Redirect(http.StatusFound, "/"+author.Username+"/")
}
