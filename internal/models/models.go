package models

import (
	"time"

	"github.com/lib/pq"
)

type User struct {
	UserID       string         `json:"_id" db:"user_id"`
	Username     string         `json:"username" db:"username"`
	FullName     string         `json:"fullName" db:"full_name"`
	Email        string         `json:"email" db:"email"`
	PasswordHash string         `json:"-" db:"password_hash"`
	Bio          string         `json:"bio" db:"bio"`
	Avatar       string         `json:"avatar" db:"avatar"`
	Followers    pq.StringArray `json:"followers" db:"-"`
	Following    pq.StringArray `json:"following" db:"-"`
	CreatedAt    time.Time      `json:"createdAt" db:"created_at"`
}

// Profile - краткий профиль для populate-подстановки в ленте
type Profile struct {
	UserID   string `json:"_id" db:"user_id"`
	Username string `json:"username" db:"username"`
	FullName string `json:"fullName" db:"full_name"`
	Email    string `json:"email" db:"email"`
	Avatar   string `json:"avatar" db:"avatar"`
	Bio      string `json:"bio" db:"bio"`
}

type Post struct {
	PostID    string         `json:"_id" db:"post_id"`
	AuthorID  string         `json:"-" db:"author_id"`
	Caption   string         `json:"caption" db:"caption"`
	MediaURL  string         `json:"post" db:"media_url"`
	PostedBy  Profile        `json:"postedBy" db:"postedby"`
	Likes     pq.StringArray `json:"likes" db:"likes"`
	Liked     bool           `json:"liked" db:"liked"`
	Comments  []Comment      `json:"comments" db:"-"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
}

type Comment struct {
	CommentID   string    `json:"_id" db:"comment_id"`
	PostID      string    `json:"-" db:"post_id"`
	Comment     string    `json:"comment" db:"comment_text"`
	CommentedBy Profile   `json:"commentedBy" db:"commentedby"`
	CreatedAt   time.Time `json:"commentTime" db:"created_at"`
}

type Follow struct {
	FollowerID string    `json:"followerId" db:"follower_id"`
	FolloweeID string    `json:"followeeId" db:"followee_id"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// ToProfile - краткая форма пользователя (без хеша пароля)
func (u *User) ToProfile() Profile {
	return Profile{
		UserID:   u.UserID,
		Username: u.Username,
		FullName: u.FullName,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Bio:      u.Bio,
	}
}
