package client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrUnauthorized - сервер ответил 401, локальная сессия сброшена
var ErrUnauthorized = errors.New("Unauthorized! Logging Out")

type Profile struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Bio      string `json:"bio"`
}

type CommentItem struct {
	ID          string    `json:"_id"`
	Comment     string    `json:"comment"`
	CommentedBy Profile   `json:"commentedBy"`
	CommentTime time.Time `json:"commentTime"`
}

type FeedItem struct {
	ID        string        `json:"_id"`
	Caption   string        `json:"caption"`
	Post      string        `json:"post"`
	PostedBy  Profile       `json:"postedBy"`
	Likes     []string      `json:"likes"`
	Liked     bool          `json:"liked"`
	Comments  []CommentItem `json:"comments"`
	CreatedAt time.Time     `json:"createdAt"`
}

type UserProfile struct {
	ID        string   `json:"_id"`
	Username  string   `json:"username"`
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	Avatar    string   `json:"avatar"`
	Bio       string   `json:"bio"`
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

// UserState - кэш пользовательского среза
type UserState struct {
	Container
	Session       *Session
	Profile       *UserProfile
	ProfileFeed   []FeedItem
	SearchResults []Profile
}

// FeedState - кэш среза ленты
type FeedState struct {
	Container
	Feed []FeedItem
}

// PostState - кэш среза отдельного поста
type PostState struct {
	Container
	Post *FeedItem
}

// Notifier - уведомление о завершении операции ("success" | "error")
type Notifier func(kind, msg string)

type Client struct {
	baseURL     string
	httpClient  *http.Client
	sessionPath string
	notify      Notifier

	User UserState
	Feed FeedState
	Post PostState
}

func New(baseURL, sessionPath string, notify Notifier) *Client {
	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		sessionPath: sessionPath,
		notify:      notify,
	}

	// восстановление сессии предыдущего запуска
	c.User.Session = loadSession(sessionPath)

	return c
}

func (c *Client) notifyOn(kind, msg string) {
	if c.notify != nil {
		c.notify(kind, msg)
	}
}

// clearSession - сброс локальной сессии по 401; навигацией
// занимается вызывающая сторона
func (c *Client) clearSession() {
	c.User.Session = nil
	removeSession(c.sessionPath)
}

type apiError struct {
	Msg string `json:"msg"`
}

func (c *Client) doRequest(method, path string, body interface{}, authed bool, out interface{}) error {
	var reqBody *bytes.Buffer

	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")

	if authed {
		if c.User.Session == nil || c.User.Session.Token == "" {
			return errors.New("user not authenticated")
		}
		req.Header.Set("Authorization", "Bearer "+c.User.Session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		c.clearSession()
		return ErrUnauthorized
	}

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Msg != "" {
			return errors.New(apiErr.Msg)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}

	return nil
}

// --- пользовательский срез ---

type RegisterInput struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(input RegisterInput) (*Session, error) {
	c.User.pending()

	var session Session
	err := c.doRequest(http.MethodPost, "/api/v1/auth/register", input, false, &session)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.User.Session = &session
	saveSession(c.sessionPath, &session)
	c.User.fulfilled()
	c.notifyOn("success", "Hello There "+session.Username)

	return &session, nil
}

func (c *Client) Login(email, password string) (*Session, error) {
	c.User.pending()

	body := map[string]string{"email": email, "password": password}

	var session Session
	err := c.doRequest(http.MethodPost, "/api/v1/auth/login", body, false, &session)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.User.Session = &session
	saveSession(c.sessionPath, &session)
	c.User.fulfilled()
	c.notifyOn("success", "Welcome Back "+session.Username)

	return &session, nil
}

func (c *Client) Logout() {
	c.clearSession()
	c.User.Status = StatusIdle
}

func (c *Client) GetUserProfile(userID string) (*UserProfile, []FeedItem, error) {
	c.User.pending()

	var resp struct {
		User UserProfile `json:"user"`
		Feed []FeedItem  `json:"feed"`
	}

	err := c.doRequest(http.MethodGet, "/api/v1/user/userProfile/"+userID, nil, true, &resp)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, nil, err
	}

	c.User.Profile = &resp.User
	c.User.ProfileFeed = resp.Feed
	c.User.fulfilled()

	return &resp.User, resp.Feed, nil
}

func (c *Client) SearchUser(search string) ([]Profile, error) {
	c.User.pending()

	var resp struct {
		Users []Profile `json:"users"`
	}

	err := c.doRequest(http.MethodGet, "/api/v1/user/search/user?search="+url.QueryEscape(search), nil, true, &resp)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.User.SearchResults = resp.Users
	c.User.fulfilled()

	return resp.Users, nil
}

type UpdateUserInput struct {
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

func (c *Client) UpdateUser(input UpdateUserInput) (*Session, error) {
	c.User.pending()

	var session Session
	err := c.doRequest(http.MethodPatch, "/api/v1/user/user", input, true, &session)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.User.Session = &session
	saveSession(c.sessionPath, &session)
	c.User.fulfilled()
	c.notifyOn("success", "Profile Updated")

	return &session, nil
}

func (c *Client) FollowUser(userID string) (*Session, error) {
	return c.mutateFollow("/api/v1/user/followUser", userID, "Followed")
}

func (c *Client) UnfollowUser(userID string) (*Session, error) {
	return c.mutateFollow("/api/v1/user/unFollowUser", userID, "Unfollowed")
}

func (c *Client) mutateFollow(path, userID, successMsg string) (*Session, error) {
	c.User.pending()

	body := map[string]string{"userId": userID}

	var session Session
	err := c.doRequest(http.MethodPatch, path, body, true, &session)
	if err != nil {
		c.User.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	// токен переиздан с новым графом подписок
	c.User.Session = &session
	saveSession(c.sessionPath, &session)
	c.User.fulfilled()
	c.notifyOn("success", successMsg)

	return &session, nil
}

// --- срез ленты ---

func (c *Client) GetAllFeed() ([]FeedItem, error) {
	return c.fetchFeed("/api/v1/feed")
}

func (c *Client) GetFollowingFeed() ([]FeedItem, error) {
	return c.fetchFeed("/api/v1/feed/explore/getFollowing")
}

func (c *Client) fetchFeed(path string) ([]FeedItem, error) {
	c.Feed.pending()

	var resp struct {
		Feed []FeedItem `json:"feed"`
	}

	err := c.doRequest(http.MethodGet, path, nil, true, &resp)
	if err != nil {
		c.Feed.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.Feed.Feed = resp.Feed
	c.Feed.fulfilled()

	return resp.Feed, nil
}

func (c *Client) CreateFeed(caption, media string) (*FeedItem, error) {
	c.Feed.pending()

	body := map[string]string{"caption": caption, "post": media}

	var resp struct {
		Feed FeedItem `json:"feed"`
	}

	err := c.doRequest(http.MethodPost, "/api/v1/feed", body, true, &resp)
	if err != nil {
		c.Feed.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.Feed.Feed = append([]FeedItem{resp.Feed}, c.Feed.Feed...)
	c.Feed.fulfilled()
	c.notifyOn("success", "Feed Created")

	return &resp.Feed, nil
}

// LikeFeed - переключение лайка, ответ замещает пост в кэше ленты
func (c *Client) LikeFeed(postID string) (*FeedItem, error) {
	c.Feed.pending()

	var resp struct {
		Feed FeedItem `json:"feed"`
	}

	err := c.doRequest(http.MethodPatch, "/api/v1/feed/like/"+postID, nil, true, &resp)
	if err != nil {
		c.Feed.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	for i := range c.Feed.Feed {
		if c.Feed.Feed[i].ID == resp.Feed.ID {
			c.Feed.Feed[i] = resp.Feed
		}
	}
	c.Feed.fulfilled()

	return &resp.Feed, nil
}

// --- срез поста ---

func (c *Client) GetPost(postID string) (*FeedItem, error) {
	c.Post.pending()

	var resp struct {
		Feed FeedItem `json:"feed"`
	}

	err := c.doRequest(http.MethodGet, "/api/v1/feed/"+postID, nil, true, &resp)
	if err != nil {
		c.Post.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.Post.Post = &resp.Feed
	c.Post.fulfilled()

	return &resp.Feed, nil
}

func (c *Client) CommentPost(postID, comment string) (*FeedItem, error) {
	c.Post.pending()

	body := map[string]string{"comment": comment}

	var resp struct {
		Feed FeedItem `json:"feed"`
	}

	err := c.doRequest(http.MethodPatch, "/api/v1/feed/"+postID, body, true, &resp)
	if err != nil {
		c.Post.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return nil, err
	}

	c.Post.Post = &resp.Feed
	c.Post.fulfilled()
	c.notifyOn("success", "Comment Added")

	return &resp.Feed, nil
}

func (c *Client) DeletePost(postID string) error {
	c.Post.pending()

	err := c.doRequest(http.MethodDelete, "/api/v1/feed/"+postID, nil, true, nil)
	if err != nil {
		c.Post.rejected(err.Error())
		c.notifyOn("error", err.Error())
		return err
	}

	if c.Post.Post != nil && c.Post.Post.ID == postID {
		c.Post.Post = nil
	}

	remaining := c.Feed.Feed[:0]
	for _, item := range c.Feed.Feed {
		if item.ID != postID {
			remaining = append(remaining, item)
		}
	}
	c.Feed.Feed = remaining

	c.Post.fulfilled()
	c.notifyOn("success", "Feed Deleted")

	return nil
}
