package handlers

import (
	"net/http"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/inkpost/inkpost/internal/models"
)

func (suite *HandlersTestSuite) TestFollowCreatesSingleSubscription() {
	follower := suite.createUser("fan")
	author := suite.createUser("writer")
	cookies := suite.login("fan")

	w := suite.do(http.MethodPost, "/writer/follow/", nil, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/writer/", w.Header().Get("Location"))

	var follow models.Follow
	require.NoError(suite.T(), suite.db.First(&follow).Error)
	suite.Equal(follower.ID, follow.UserID)
	suite.Equal(author.ID, follow.AuthorID)
	suite.EqualValues(1, suite.followCount())
}

func (suite *HandlersTestSuite) TestFollowTwiceKeepsOneRow() {
	suite.createUser("fan")
	suite.createUser("writer")
	cookies := suite.login("fan")

	suite.do(http.MethodPost, "/writer/follow/", nil, cookies)
	w := suite.do(http.MethodPost, "/writer/follow/", nil, cookies)

	suite.Equal(http.StatusFound, w.Code)
	suite.EqualValues(1, suite.followCount(), "repeat follow must not add a row")
}

func (suite *HandlersTestSuite) TestFollowSelfIsNoOp() {
	suite.createUser("writer")
	cookies := suite.login("writer")

	w := suite.do(http.MethodPost, "/writer/follow/", nil, cookies)

	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/writer/", w.Header().Get("Location"))
	suite.Zero(suite.followCount(), "following yourself must create nothing")
}

func (suite *HandlersTestSuite) TestFollowRequiresLogin() {
	suite.createUser("writer")

	w := suite.do(http.MethodPost, "/writer/follow/", nil, nil)

	suite.Equal(http.StatusFound, w.Code)
	suite.Contains(w.Header().Get("Location"), "/auth/login/?next=")
	suite.Zero(suite.followCount())
}

func (suite *HandlersTestSuite) TestFollowUnknownAuthorNotFound() {
	suite.createUser("fan")
	cookies := suite.login("fan")

	w := suite.do(http.MethodPost, "/ghost/follow/", nil, cookies)
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlersTestSuite) TestFeedShowsOnlyFollowedAuthors() {
	suite.createUser("fan")
	followed := suite.createUser("followed")
	stranger := suite.createUser("stranger")

	now := time.Now().UTC()
	suite.createPost(followed, "words from the followed author", nil, now)
	suite.createPost(stranger, "words from a stranger", nil, now.Add(-time.Minute))

	cookies := suite.login("fan")
	suite.do(http.MethodPost, "/followed/follow/", nil, cookies)

	w := suite.do(http.MethodGet, "/follow/", nil, cookies)
	suite.Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "words from the followed author")
	suite.NotContains(w.Body.String(), "words from a stranger")
}

func (suite *HandlersTestSuite) TestUnfollowRemovesAuthorFromFeed() {
	suite.createUser("fan")
	followed := suite.createUser("followed")
	suite.createPost(followed, "soon to disappear from the feed", nil, time.Now().UTC())

	cookies := suite.login("fan")
	suite.do(http.MethodPost, "/followed/follow/", nil, cookies)
	suite.EqualValues(1, suite.followCount())

	w := suite.do(http.MethodPost, "/followed/unfollow/", nil, cookies)
	suite.Equal(http.StatusFound, w.Code)
	suite.Equal("/followed/", w.Header().Get("Location"))
	suite.Zero(suite.followCount())

	feed := suite.do(http.MethodGet, "/follow/", nil, cookies)
	suite.Equal(http.StatusOK, feed.Code)
	suite.NotContains(feed.Body.String(), "soon to disappear from the feed")
}

func (suite *HandlersTestSuite) TestUnfollowWithoutFollowIsNoOp() {
	suite.createUser("fan")
	suite.createUser("writer")
	cookies := suite.login("fan")

	w := suite.do(http.MethodPost, "/writer/unfollow/", nil, cookies)

	suite.Equal(http.StatusFound, w.Code)
	suite.Zero(suite.followCount())
}

func (suite *HandlersTestSuite) TestFeedIsPerUser() {
	suite.createUser("fan")
	suite.createUser("other")
	followed := suite.createUser("followed")
	suite.createPost(followed, "only for the follower", nil, time.Now().UTC())

	fanCookies := suite.login("fan")
	suite.do(http.MethodPost, "/followed/follow/", nil, fanCookies)

	otherCookies := suite.login("other")
	w := suite.do(http.MethodGet, "/follow/", nil, otherCookies)

	suite.Equal(http.StatusOK, w.Code)
	suite.NotContains(w.Body.String(), "only for the follower")
}

func (suite *HandlersTestSuite) TestProfileShowsFollowState() {
	suite.createUser("fan")
	suite.createUser("writer")
	cookies := suite.login("fan")

	before := suite.do(http.MethodGet, "/writer/", nil, cookies)
	suite.Contains(before.Body.String(), "/writer/follow/")

	suite.do(http.MethodPost, "/writer/follow/", nil, cookies)

	after := suite.do(http.MethodGet, "/writer/", nil, cookies)
	suite.Contains(after.Body.String(), "/writer/unfollow/")
}
