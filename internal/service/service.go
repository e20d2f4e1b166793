package service

import (
	"errors"

	"instafeed/internal/config"
	"instafeed/internal/repository"
	"instafeed/internal/storage"
)

var (
	ErrValidation         = errors.New("неверные входные данные")
	ErrForbidden          = errors.New("доступ запрещен")
	ErrInvalidCredentials = errors.New("неверный email или пароль")
)

type Service struct {
	Auth AuthService
	User UserService
	Feed FeedService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	auth := NewAuthService(rep.User, cfg)

	return &Service{
		Auth: auth,
		User: NewUserService(rep.User, rep.Feed, auth, storage, cfg),
		Feed: NewFeedService(rep.Feed, storage, cfg),
	}
}
