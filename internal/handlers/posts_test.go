package handlers

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/models"
)

func (suite *HandlersTestSuite) TestNewPostAppearsOnIndexProfileGroupAndDetail() {
	author := suite.createUser("leo")
	group := suite.createGroup("Travel", "travel")
	cookies := suite.login("leo")

	w := suite.doMultipart("/new/", map[string]string{
		"text":  "First morning in Lisbon.",
		"group": group.ID,
	}, "", nil, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/", w.Header().Get("Location"))

	var post models.Post
	require.NoError(suite.T(), suite.db.First(&post).Error)
	suite.Equal(author.ID, post.AuthorID)
	suite.Require().NotNil(post.GroupID)
	suite.Equal(group.ID, *post.GroupID)

	for _, target := range []string{
		"/",
		"/leo/",
		"/group/travel/",
		fmt.Sprintf("/leo/%s/", post.ID),
	} {
		w := suite.do(http.MethodGet, target, nil, cookies)
		suite.Equal(http.StatusOK, w.Code, target)
		suite.Contains(w.Body.String(), "First morning in Lisbon.", target)
	}
}

func (suite *HandlersTestSuite) TestNewPostRequiresLogin() {
	suite.createUser("leo")

	w := suite.do(http.MethodGet, "/new/", nil, nil)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/auth/login/?next=%2Fnew%2F", w.Header().Get("Location"))

	w = suite.do(http.MethodPost, "/new/", url.Values{"text": {"sneaky"}}, nil)
	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "/auth/login/")
	suite.Zero(suite.postCount(), "an anonymous submission must create nothing")
}

func (suite *HandlersTestSuite) TestNewPostEmptyTextRerendersForm() {
	suite.createUser("leo")
	cookies := suite.login("leo")

	w := suite.doMultipart("/new/", map[string]string{"text": "   "}, "", nil, cookies)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "This field is required.")
	suite.Zero(suite.postCount())
}

func (suite *HandlersTestSuite) TestNewPostUnknownGroupRejected() {
	suite.createUser("leo")
	cookies := suite.login("leo")

	w := suite.doMultipart("/new/", map[string]string{
		"text":  "A post for nowhere.",
		"group": "does-not-exist",
	}, "", nil, cookies)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Select a valid group.")
	suite.Zero(suite.postCount())
}

func (suite *HandlersTestSuite) TestNewPostStoresUploadedImage() {
	author := suite.createUser("leo")
	cookies := suite.login("leo")

	w := suite.doMultipart("/new/", map[string]string{
		"text": "Photo from the trail.",
	}, "trail.png", pngBytes(suite.T()), cookies)
	suite.Equal(http.StatusFound, w.Code)

	var post models.Post
	require.NoError(suite.T(), suite.db.First(&post).Error)
	suite.True(strings.HasPrefix(post.ImageURL, "/media/"), "got %q", post.ImageURL)
	suite.True(strings.HasSuffix(post.ImageURL, ".png"), "got %q", post.ImageURL)
	suite.Contains(post.ImageURL, author.ID)

	onDisk := filepath.Join(suite.mediaDir, strings.TrimPrefix(post.ImageURL, "/media/"))
	_, err := os.Stat(onDisk)
	suite.NoError(err, "the upload should exist under the media dir")

	detail := suite.do(http.MethodGet, fmt.Sprintf("/leo/%s/", post.ID), nil, cookies)
	suite.Contains(detail.Body.String(), post.ImageURL)
}

func (suite *HandlersTestSuite) TestNewPostRejectsNonImageUpload() {
	suite.createUser("leo")
	cookies := suite.login("leo")

	notAnImage := []byte("package main\n\nfunc main() {}\n")
	w := suite.doMultipart("/new/", map[string]string{
		"text": "Trying to upload source code.",
	}, "exploit.png", notAnImage, cookies)

	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "not an image or a corrupted image")
	suite.Zero(suite.postCount())

	entries, err := os.ReadDir(suite.mediaDir)
	suite.NoError(err)
	suite.Empty(entries, "a rejected upload must leave no file behind")
}

func (suite *HandlersTestSuite) TestPostEditReplacesTextEverywhere() {
	author := suite.createUser("leo")
	cookies := suite.login("leo")
	post := suite.createPost(author, "draft wording", nil, time.Now().UTC())

	editPath := fmt.Sprintf("/leo/%s/edit/", post.ID)

	get := suite.do(http.MethodGet, editPath, nil, cookies)
	suite.Equal(http.StatusOK, get.Code)
	suite.Contains(get.Body.String(), "draft wording")

	w := suite.doMultipart(editPath, map[string]string{"text": "final wording"}, "", nil, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(fmt.Sprintf("/leo/%s/", post.ID), w.Header().Get("Location"))

	var updated models.Post
	require.NoError(suite.T(), suite.db.First(&updated, "id = ?", post.ID).Error)
	suite.Equal("final wording", updated.Text)
	suite.Equal(author.ID, updated.AuthorID, "editing never changes the author")
	suite.EqualValues(1, suite.postCount(), "editing must not create a second post")

	for _, target := range []string{"/", "/leo/", fmt.Sprintf("/leo/%s/", post.ID)} {
		w := suite.do(http.MethodGet, target, nil, cookies)
		suite.Contains(w.Body.String(), "final wording", target)
		suite.NotContains(w.Body.String(), "draft wording", target)
	}
}

func (suite *HandlersTestSuite) TestPostEditByNonAuthorRedirectsWithoutChange() {
	author := suite.createUser("leo")
	suite.createUser("mallory")
	post := suite.createPost(author, "authored by leo", nil, time.Now().UTC())

	cookies := suite.login("mallory")
	editPath := fmt.Sprintf("/leo/%s/edit/", post.ID)
	postPath := fmt.Sprintf("/leo/%s/", post.ID)

	get := suite.do(http.MethodGet, editPath, nil, cookies)
	suite.Equal(http.StatusFound, get.Code)
	suite.Equal(postPath, get.Header().Get("Location"))

	w := suite.doMultipart(editPath, map[string]string{"text": "rewritten by mallory"}, "", nil, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal(postPath, w.Header().Get("Location"))

	var unchanged models.Post
	require.NoError(suite.T(), suite.db.First(&unchanged, "id = ?", post.ID).Error)
	suite.Equal("authored by leo", unchanged.Text)
}

func (suite *HandlersTestSuite) TestPostEditRequiresLogin() {
	author := suite.createUser("leo")
	post := suite.createPost(author, "private draft", nil, time.Now().UTC())

	editPath := fmt.Sprintf("/leo/%s/edit/", post.ID)
	w := suite.do(http.MethodGet, editPath, nil, nil)

	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "/auth/login/?next=")
}

func (suite *HandlersTestSuite) TestPostEditUnknownPostNotFound() {
	suite.createUser("leo")
	cookies := suite.login("leo")

	w := suite.do(http.MethodGet, "/leo/3b241101-e2bb-4255-8caf-4136c566a962/edit/", nil, cookies)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestPostDetailWrongAuthorNotFound() {
	author := suite.createUser("leo")
	suite.createUser("mia")
	post := suite.createPost(author, "belongs to leo", nil, time.Now().UTC())

	// The post exists, but not under this author's username.
	w := suite.do(http.MethodGet, fmt.Sprintf("/mia/%s/", post.ID), nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestGroupPageListsOnlyItsPosts() {
	author := suite.createUser("leo")
	travel := suite.createGroup("Travel", "travel")
	cooking := suite.createGroup("Cooking", "cooking")

	now := time.Now().UTC()
	suite.createPost(author, "hiking in the alps", travel, now)
	suite.createPost(author, "sourdough starter", cooking, now.Add(-time.Minute))
	suite.createPost(author, "no group at all", nil, now.Add(-2*time.Minute))

	w := suite.do(http.MethodGet, "/group/travel/", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "hiking in the alps")
	suite.NotContains(w.Body.String(), "sourdough starter")
	suite.NotContains(w.Body.String(), "no group at all")
}

func (suite *HandlersTestSuite) TestUnknownGroupSlugNotFound() {
	w := suite.do(http.MethodGet, "/group/no-such-group/", nil, nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestIndexPaginatesNewestFirst() {
	author := suite.createUser("leo")
	now := time.Now().UTC()
	for i := 0; i < 13; i++ {
		suite.createPost(author, fmt.Sprintf("entry number %02d", i), nil, now.Add(-time.Duration(i)*time.Minute))
	}

	first := suite.do(http.MethodGet, "/", nil, nil)
	suite.Equal(http.StatusOK, first.Code)
	suite.Contains(first.Body.String(), "entry number 00")
	suite.Contains(first.Body.String(), "entry number 09")
	suite.NotContains(first.Body.String(), "entry number 10")
	suite.Contains(first.Body.String(), "Page 1 of 2")

	second := suite.do(http.MethodGet, "/?page=2", nil, nil)
	suite.Equal(http.StatusOK, second.Code)
	suite.Contains(second.Body.String(), "entry number 10")
	suite.Contains(second.Body.String(), "entry number 12")
	suite.NotContains(second.Body.String(), "entry number 00")
	suite.Contains(second.Body.String(), "Page 2 of 2")
}

func (suite *HandlersTestSuite) TestPageNumberPastEndFallsBackToLastPage() {
	author := suite.createUser("leo")
	now := time.Now().UTC()
	for i := 0; i < 13; i++ {
		suite.createPost(author, fmt.Sprintf("entry number %02d", i), nil, now.Add(-time.Duration(i)*time.Minute))
	}

	w := suite.do(http.MethodGet, "/?page=99", nil, nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "Page 2 of 2")
	suite.Contains(w.Body.String(), "entry number 12")

	garbled := suite.do(http.MethodGet, "/?page=banana", nil, nil)
	suite.Equal(http.StatusOK, garbled.Code)
	suite.Contains(garbled.Body.String(), "Page 1 of 2")
}
