package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/models"
)

func (suite *HandlersTestSuite) TestCommentAppearsOnPostPage() {
	author := suite.createUser("writer")
	commenter := suite.createUser("reader")
	post := suite.createPost(author, "a post worth discussing", nil, time.Now().UTC())

	cookies := suite.login("reader")
	postPath := fmt.Sprintf("/writer/%s/", post.ID)

	w := suite.do(http.MethodPost, postPath+"comment/", url.Values{"text": {"great read"}}, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(postPath, w.Header().Get("Location"))

	var comment models.Comment
	require.NoError(suite.T(), suite.db.First(&comment).Error)
	suite.Equal(commenter.ID, comment.AuthorID)
	suite.Equal(post.ID, comment.PostID)

	page := suite.do(http.MethodGet, postPath, nil, cookies)
	suite.Equal(http.StatusOK, page.Code)
	suite.Contains(page.Body.String(), "great read")
	suite.Contains(page.Body.String(), "by reader")
}

func (suite *HandlersTestSuite) TestCommentRequiresLogin() {
	author := suite.createUser("writer")
	post := suite.createPost(author, "anonymous target", nil, time.Now().UTC())

	postPath := fmt.Sprintf("/writer/%s/", post.ID)
	w := suite.do(http.MethodPost, postPath+"comment/", url.Values{"text": {"drive-by"}}, nil)

	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "/auth/login/?next=")
	suite.Zero(suite.commentCount())
}

func (suite *HandlersTestSuite) TestEmptyCommentRerendersPostPage() {
	author := suite.createUser("writer")
	suite.createUser("reader")
	post := suite.createPost(author, "a post worth discussing", nil, time.Now().UTC())

	cookies := suite.login("reader")
	postPath := fmt.Sprintf("/writer/%s/", post.ID)

	w := suite.do(http.MethodPost, postPath+"comment/", url.Values{"text": {"   "}}, cookies)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "This field is required.")
	suite.Contains(w.Body.String(), "a post worth discussing")
	suite.Zero(suite.commentCount())
}

func (suite *HandlersTestSuite) TestCommentOnUnknownPostNotFound() {
	suite.createUser("writer")
	suite.createUser("reader")
	cookies := suite.login("reader")

	w := suite.do(http.MethodPost, "/writer/3b241101-e2bb-4255-8caf-4136c566a962/comment/",
		url.Values{"text": {"into the void"}}, cookies)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Zero(suite.commentCount())
}

func (suite *HandlersTestSuite) TestCommentViaGetNotFound() {
	author := suite.createUser("writer")
	suite.createUser("reader")
	post := suite.createPost(author, "a post", nil, time.Now().UTC())
	cookies := suite.login("reader")

	w := suite.do(http.MethodGet, fmt.Sprintf("/writer/%s/comment/", post.ID), nil, cookies)
	suite.Equal(http.StatusNotFound, w.Code)
}
