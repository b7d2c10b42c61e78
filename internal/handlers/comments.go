package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/inkpost/inkpost/internal/auth"
	"github.com/inkpost/inkpost/internal/database"
	"github.com/inkpost/inkpost/internal/forms"
	"github.com/inkpost/inkpost/internal/models"
)

// addComment creates a comment by the current user on the given post.
// Invalid input re-renders the post page with the form errors inline and
// creates nothing.
func (h *Handlers) addComment(c *gin.Context, username, postID string) {
	post, err := findUserPost(username, postID)
	if err != nil {
		if isNotFound(err) {
			h.RenderNotFound(c)
			return
		}
		h.fail(c, "failed to load post", err)
		return
	}

	form := &forms.CommentForm{Text: c.PostForm("text")}
	if !form.Validate() {
		h.renderPostPage(c, post, form)
		return
	}

	comment := models.Comment{
		Text:     form.Text,
		PostID:   post.ID,
		AuthorID: auth.CurrentUserID(c),
	}
	if err := database.DB.Create(&comment).Error; err != nil {
		h.fail(c, "failed to create comment", err)
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("/%s/%s/", username, postID))
}
