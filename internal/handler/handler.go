package handlers

import (
	"github.com/go-playground/validator/v10"

	"instafeed/internal/config"
	"instafeed/internal/repository"
	"instafeed/internal/service"
)

type Handlers struct {
	AuthService service.AuthService
	UserService service.UserService
	FeedService service.FeedService
	UserRepo    repository.UserRepository
	Cfg         *config.Config
	Validate    *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService: service.Auth,
		UserService: service.User,
		FeedService: service.Feed,
		UserRepo:    repo.User,
		Cfg:         config,
		Validate:    validator.New(),
	}
}
