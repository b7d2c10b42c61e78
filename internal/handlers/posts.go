package handlers

import (
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/forms"
	"github.com/inkpost/inkpost/internal/models"
	"github.com/inkpost/inkpost/internal/pagination"
)

// Index renders page N of all posts, newest-first. The route is wrapped in
// the page cache middleware, so within the cache window this handler is not
// reached at all.
func (h *Handlers) Index(c *gin.Context) {
	requested := pagination.ParsePageNumber(c.Query("page"))

	var posts []models.Post
	query := database.DB.Model(&models.Post{}).
		Preload("Author").Preload("Group").
		Order("created_at DESC")

	page, err := pagination.Paginate(query, requested, &posts)
	if err != nil {
		h.fail(c, "failed to load index posts", err)
		return
	}

	c.HTML(http.StatusOK, "index.tmpl", gin.H{
		"Posts": posts,
		"Page":  page,
		"User":  auth.CurrentUser(c),
	})
}

// GroupPosts renders a group's posts, paginated like the index.
func (h *Handlers) GroupPosts(c *gin.Context) {
	slug := c.Param("slug")

	var group models.Group
	if err := database.DB.First(&group, "slug = ?", slug).Error; err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load group", err)
		return
	}

	requested := pagination.ParsePageNumber(c.Query("page"))

	var posts []models.Post
	query := database.DB.Model(&models.Post{}).
		Preload("Author").
		Where("group_id = ?", group.ID).
		Order("created_at DESC")

	page, err := pagination.Paginate(query, requested, &posts)
	if err != nil {
		h.fail(c, "failed to load group posts", err)
		return
	}

	c.HTML(http.StatusOK, "group.tmpl", gin.H{
		"Group": group,
		"Posts": posts,
		"Page":  page,
		"User":  auth.CurrentUser(c),
	})
}

// NewPostPage renders the empty submission form.
func (h *Handlers) NewPostPage(c *gin.Context) {
	h.renderPostForm(c, &forms.PostForm{}, false, "")
}

// NewPostSubmit validates the submission and creates the post with the
// current user as its author. Invalid input re-renders the form and creates
// nothing.
func (h *Handlers) NewPostSubmit(c *gin.Context) {
	form := h.bindPostForm(c)
	if !form.Validate(database.DB) {
		h.renderPostForm(c, form, false, "")
		return
	}

	userID := auth.CurrentUserID(c)

	post := models.Post{
		Text:     form.Text,
		AuthorID: userID,
	}
	if group := form.Group(); group != nil {
		post.GroupID = &group.ID
	}
	if form.ImageData() != nil {
		imageURL, err := h.savePostImage(c, form, userID)
		if err != nil {
			h.fail(c, "failed to store post image", err)
			return
		}
		post.ImageURL = imageURL
	}

	if err := database.DB.Create(&post).Error; err != nil {
		h.fail(c, "failed to create post", err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// postView renders a single post with its comments and a fresh comment form.
func (h *Handlers) postView(c *gin.Context, username, postID string) {
	post, err := findUserPost(username, postID)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load post", err)
		return
	}

	h.renderPostPage(c, post, &forms.CommentForm{})
}

// renderPostPage renders the post detail page; AddComment reuses it to show
// inline form errors.
func (h *Handlers) renderPostPage(c *gin.Context, post *models.Post, commentForm *forms.CommentForm) {
	var comments []models.Comment
	if err := database.DB.Preload("Author").
		Where("post_id = ?", post.ID).
		Order("created_at").
		Find(&comments).Error; err != nil {
		h.fail(c, "failed to load comments", err)
		return
	}

	var postCount int64
	if err := database.DB.Model(&models.Post{}).
		Where("author_id = ?", post.AuthorID).
		Count(&postCount).Error; err != nil {
		h.fail(c, "failed to count author posts", err)
		return
	}

	c.HTML(http.StatusOK, "post_view.tmpl", gin.H{
		"Post":      post,
		"Author":    post.Author,
		"Comments":  comments,
		"Form":      commentForm,
		"PostCount": postCount,
		"User":      auth.CurrentUser(c),
	})
}

// postEdit lets a post's author change its text, group and image. A
// non-author is silently redirected to the post page without any change.
func (h *Handlers) postEdit(c *gin.Context, username, postID string) {
	post, err := findUserPost(username, postID)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load post", err)
		return
	}

	postPath := fmt.Sprintf("/%s/%s/", username, postID)
	if auth.CurrentUserID(c) != post.AuthorID {
		c.Redirect(http.StatusFound, postPath)
		return
	}

	if c.Request.Method == http.MethodGet {
		form := &forms.PostForm{Text: post.Text}
		if post.GroupID != nil {
			form.GroupID = *post.GroupID
		}
		h.renderPostForm(c, form, true, postPath)
		return
	}

	form := h.bindPostForm(c)
	if !form.Validate(database.DB) {
		h.renderPostForm(c, form, true, postPath)
		return
	}

	updates := models.Post{Text: form.Text}
	if group := form.Group(); group != nil {
		updates.GroupID = &group.ID
	}
	updates.ImageURL = post.ImageURL
	if form.ImageData() != nil {
		imageURL, err := h.savePostImage(c, form, post.AuthorID)
		if err != nil {
			h.fail(c, "failed to store post image", err)
			return
		}
		updates.ImageURL = imageURL
	}

	// Author is immutable; only the editable columns are written.
	if err := database.DB.Model(post).
		Select("text", "group_id", "image_url").
		Updates(updates).Error; err != nil {
		h.fail(c, "failed to update post", err)
		return
	}

	c.Redirect(http.StatusFound, postPath)
}

// bindPostForm reads the submitted post fields; the author field never
// comes from the client.
func (h *Handlers) bindPostForm(c *gin.Context) *forms.PostForm {
	form := &forms.PostForm{
		Text:    c.PostForm("text"),
		GroupID: c.PostForm("group"),
	}
	if file, err := c.FormFile("image"); err == nil {
		form.Image = file
	}
	return form
}

func (h *Handlers) renderPostForm(c *gin.Context, form *forms.PostForm, isEdit bool, postPath string) {
	var groups []models.Group
	database.DB.Order("title").Find(&groups)

	c.HTML(http.StatusOK, "post_form.tmpl", gin.H{
		"Form":     form,
		"Groups":   groups,
		"IsEdit":   isEdit,
		"PostPath": postPath,
		"User":     auth.CurrentUser(c),
	})
}

// savePostImage stores the validated upload, naming it by its sniffed format.
func (h *Handlers) savePostImage(c *gin.Context, form *forms.PostForm, ownerID string) (string, error) {
	filename := form.Image.Filename
	if filepath.Ext(filename) != form.ImageExtension() {
		filename += form.ImageExtension()
	}
	return h.storage.SaveImage(c.Request.Context(), form.ImageData(), ownerID, filename)
}
