package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/cache"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/logger"
	"github.com/inkpost/inkpost/internal/models"
	"github.com/inkpost/inkpost/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handlers contains all view handlers and their collaborators.
type Handlers struct {
	auth    *auth.Service
	cache   cache.Store
	storage storage.Storage
}

// New creates a new handlers instance.
func New(authService *auth.Service, cacheStore cache.Store, imageStorage storage.Storage) *Handlers {
	return &Handlers{
		auth:    authService,
		cache:   cacheStore,
		storage: imageStorage,
	}
}

// RenderNotFound renders the dedicated not-found page.
func (h *Handlers) RenderNotFound(c *gin.Context) {
	c.HTML(http.StatusNotFound, "404.tmpl", gin.H{
		"Path": c.Request.URL.Path,
		"User": auth.CurrentUser(c),
	})
	c.Abort()
}

// RenderServerError renders the dedicated server-error page.
func (h *Handlers) RenderServerError(c *gin.Context) {
	c.HTML(http.StatusInternalServerError, "500.tmpl", gin.H{
		"User": auth.CurrentUser(c),
	})
	c.Abort()
}

// fail logs an unexpected error and renders the 500 page.
func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	logger.Log.Error(msg,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
	)
	h.RenderServerError(c)
}

// findUserPost loads a post by id scoped to its author's username.
// Returns gorm.ErrRecordNotFound when either half doesn't match.
func findUserPost(username, postID string) (*models.Post, error) {
	var post models.Post
	err := database.DB.Preload("Author").Preload("Group").
		Select("posts.*").
		Joins("JOIN users ON users.id = posts.author_id").
		Where("users.username = ? AND posts.id = ?", username, postID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// findUserByUsername loads a user by username.
func findUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := database.DB.First(&user, "username = ?", username).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
