package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notification struct {
	kind string
	msg  string
}

// newTestClient - клиент с сессией в t.TempDir и записью уведомлений
func newTestClient(t *testing.T, serverURL string) (*Client, *[]notification) {
	var notes []notification

	sessionPath := filepath.Join(t.TempDir(), "session.json")
	c := New(serverURL, sessionPath, func(kind, msg string) {
		notes = append(notes, notification{kind, msg})
	})

	return c, &notes
}

func authedSession() *Session {
	return &Session{
		ID:        "bob",
		Username:  "bob",
		Email:     "bob@example.com",
		Followers: []string{},
		Following: []string{},
		Token:     "token-bob",
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestLogin_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice@example.com", body["email"])

		writeJSON(w, http.StatusOK, Session{
			ID:       "alice",
			Username: "alice",
			Email:    "alice@example.com",
			Token:    "token-alice",
		})
	}))
	defer server.Close()

	c, notes := newTestClient(t, server.URL)

	session, err := c.Login("alice@example.com", "password123")

	require.NoError(t, err)
	assert.Equal(t, "token-alice", session.Token)
	assert.Equal(t, StatusFulfilled, c.User.Status)
	assert.False(t, c.User.IsLoading)

	// сессия сохранена между запусками
	restored := loadSession(c.sessionPath)
	require.NotNil(t, restored)
	assert.Equal(t, "alice", restored.Username)

	require.Len(t, *notes, 1)
	assert.Equal(t, "success", (*notes)[0].kind)
	assert.Equal(t, "Welcome Back alice", (*notes)[0].msg)
}

func TestLogin_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Укажите все значения"})
	}))
	defer server.Close()

	c, notes := newTestClient(t, server.URL)

	session, err := c.Login("alice@example.com", "")

	assert.Nil(t, session)
	require.Error(t, err)
	assert.Equal(t, StatusRejected, c.User.Status)
	assert.Equal(t, "Укажите все значения", c.User.Err)

	require.Len(t, *notes, 1)
	assert.Equal(t, "error", (*notes)[0].kind)
}

func TestNew_RestoresSession(t *testing.T) {
	sessionPath := filepath.Join(t.TempDir(), "session.json")
	require.NoError(t, saveSession(sessionPath, authedSession()))

	c := New("http://localhost", sessionPath, nil)

	require.NotNil(t, c.User.Session)
	assert.Equal(t, "bob", c.User.Session.Username)
	assert.Equal(t, "token-bob", c.User.Session.Token)
}

func TestDoRequest_UnauthorizedClearsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"msg": "Невалидный токен"})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL)
	c.User.Session = authedSession()
	require.NoError(t, saveSession(c.sessionPath, c.User.Session))

	_, err := c.GetAllFeed()

	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, c.User.Session)
	assert.Equal(t, StatusRejected, c.Feed.Status)

	// локальный файл сессии удалён
	_, statErr := os.Stat(c.sessionPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestGetAllFeed_NotAuthenticated(t *testing.T) {
	c, _ := newTestClient(t, "http://localhost")

	_, err := c.GetAllFeed()

	require.Error(t, err)
	assert.Equal(t, StatusRejected, c.Feed.Status)
}

func TestGetAllFeed_PopulatesCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer token-bob", r.Header.Get("Authorization"))

		writeJSON(w, http.StatusOK, map[string][]FeedItem{
			"feed": {
				{ID: "p2", Caption: "второй"},
				{ID: "p1", Caption: "первый"},
			},
		})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL)
	c.User.Session = authedSession()

	feed, err := c.GetAllFeed()

	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, "p2", c.Feed.Feed[0].ID)
	assert.Equal(t, StatusFulfilled, c.Feed.Status)
}

func TestCreateFeed_PrependsToCache(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]FeedItem{
			"feed": {ID: "p3", Caption: "новый"},
		})
	}))
	defer server.Close()

	c, notes := newTestClient(t, server.URL)
	c.User.Session = authedSession()
	c.Feed.Feed = []FeedItem{{ID: "p2"}, {ID: "p1"}}

	created, err := c.CreateFeed("новый", "data:image/png;base64,aGk=")

	require.NoError(t, err)
	assert.Equal(t, "p3", created.ID)

	// новый пост встаёт в начало кэша
	require.Len(t, c.Feed.Feed, 3)
	assert.Equal(t, "p3", c.Feed.Feed[0].ID)

	require.Len(t, *notes, 1)
	assert.Equal(t, "Feed Created", (*notes)[0].msg)
}

func TestLikeFeed_ReplacesCachedPost(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/feed/like/p1", r.URL.Path)

		writeJSON(w, http.StatusOK, map[string]FeedItem{
			"feed": {ID: "p1", Likes: []string{"bob"}, Liked: true},
		})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL)
	c.User.Session = authedSession()
	c.Feed.Feed = []FeedItem{
		{ID: "p2"},
		{ID: "p1", Likes: []string{}, Liked: false},
	}

	liked, err := c.LikeFeed("p1")

	require.NoError(t, err)
	assert.True(t, liked.Liked)

	// ответ замещает пост в кэше, остальное не трогает
	assert.True(t, c.Feed.Feed[1].Liked)
	assert.Equal(t, []string{"bob"}, c.Feed.Feed[1].Likes)
	assert.False(t, c.Feed.Feed[0].Liked)
}

func TestDeletePost_RemovesFromCaches(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, map[string]FeedItem{"deleteFeed": {ID: "p1"}})
	}))
	defer server.Close()

	c, _ := newTestClient(t, server.URL)
	c.User.Session = authedSession()
	c.Feed.Feed = []FeedItem{{ID: "p2"}, {ID: "p1"}}
	c.Post.Post = &FeedItem{ID: "p1"}

	err := c.DeletePost("p1")

	require.NoError(t, err)
	assert.Nil(t, c.Post.Post)
	require.Len(t, c.Feed.Feed, 1)
	assert.Equal(t, "p2", c.Feed.Feed[0].ID)
}

func TestFollowUser_PersistsReissuedSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/user/followUser", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["userId"])

		writeJSON(w, http.StatusOK, Session{
			ID:        "bob",
			Username:  "bob",
			Following: []string{"alice"},
			Token:     "token-fresh",
		})
	}))
	defer server.Close()

	c, notes := newTestClient(t, server.URL)
	c.User.Session = authedSession()

	session, err := c.FollowUser("alice")

	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, session.Following)
	assert.Equal(t, "token-fresh", c.User.Session.Token)

	// переизданный токен сохранён локально
	restored := loadSession(c.sessionPath)
	require.NotNil(t, restored)
	assert.Equal(t, "token-fresh", restored.Token)

	require.Len(t, *notes, 1)
	assert.Equal(t, "Followed", (*notes)[0].msg)
}

func TestLogout_ResetsState(t *testing.T) {
	c, _ := newTestClient(t, "http://localhost")
	c.User.Session = authedSession()
	c.User.Status = StatusFulfilled
	require.NoError(t, saveSession(c.sessionPath, c.User.Session))

	c.Logout()

	assert.Nil(t, c.User.Session)
	assert.Equal(t, StatusIdle, c.User.Status)

	_, statErr := os.Stat(c.sessionPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestContainerLifecycle(t *testing.T) {
	var container Container

	assert.Equal(t, Status(""), container.Status)

	container.pending()
	assert.Equal(t, StatusPending, container.Status)
	assert.True(t, container.IsLoading)

	container.rejected("что-то пошло не так")
	assert.Equal(t, StatusRejected, container.Status)
	assert.False(t, container.IsLoading)
	assert.Equal(t, "что-то пошло не так", container.Err)

	container.pending()
	assert.Empty(t, container.Err)

	container.fulfilled()
	assert.Equal(t, StatusFulfilled, container.Status)
	assert.False(t, container.IsLoading)
}
