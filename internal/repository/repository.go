package repository

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"instafeed/internal/models"
)

var (
	ErrNotFound  = errors.New("запись не найдена")
	ErrDuplicate = errors.New("запись уже существует")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByID(ctx context.Context, userID string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	VerifyPassword(ctx context.Context, email, password string) (*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	SearchUsers(ctx context.Context, search string) ([]models.Profile, error)
	Follow(ctx context.Context, followerID, followeeID string) error
	Unfollow(ctx context.Context, followerID, followeeID string) error
	GetFollowing(ctx context.Context, userID string) ([]string, error)
	GetFollowers(ctx context.Context, userID string) ([]string, error)
}

type FeedRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, viewerID, postID string) (*models.Post, error)
	GetAll(ctx context.Context, viewerID string, limit int) ([]models.Post, error)
	GetFollowing(ctx context.Context, viewerID string) ([]models.Post, error)
	GetByAuthorID(ctx context.Context, viewerID, authorID string) ([]models.Post, error)
	ToggleLike(ctx context.Context, postID, userID string) error
	AddComment(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, postID string) error
}

type Repository struct {
	User UserRepository
	Feed FeedRepository
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{
		User: NewUserRepository(db),
		Feed: NewFeedRepository(db),
	}
}
