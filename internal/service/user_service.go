package service

import (
	"context"
	"fmt"
	"strings"

	"instafeed/internal/config"
	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/storage"
)

type UpdateUserRequest struct {
	UserID   string `json:"-"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Bio      string `json:"bio"`
	Avatar   string `json:"avatar"`
}

type UserService interface {
	GetProfile(ctx context.Context, viewerID, userID string) (*models.User, []models.Post, error)
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, string, error)
	SearchUsers(ctx context.Context, search string) ([]models.Profile, error)
	Follow(ctx context.Context, actorID, targetID string) (*models.User, string, error)
	Unfollow(ctx context.Context, actorID, targetID string) (*models.User, string, error)
}

type userService struct {
	userRepo repository.UserRepository
	feedRepo repository.FeedRepository
	auth     AuthService
	storage  storage.Storage
	cfg      *config.Config
}

func NewUserService(userRepo repository.UserRepository, feedRepo repository.FeedRepository, auth AuthService, storage storage.Storage, cfg *config.Config) UserService {
	return &userService{
		userRepo: userRepo,
		feedRepo: feedRepo,
		auth:     auth,
		storage:  storage,
		cfg:      cfg,
	}
}

// GetProfile - профиль с графом подписок и постами пользователя
func (s *userService) GetProfile(ctx context.Context, viewerID, userID string) (*models.User, []models.Post, error) {
	user, err := s.loadUserWithGraph(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.feedRepo.GetByAuthorID(ctx, viewerID, userID)
	if err != nil {
		return nil, nil, err
	}

	return user, posts, nil
}

func (s *userService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*models.User, string, error) {
	if req.Email == "" || req.Username == "" || req.FullName == "" || req.Bio == "" || req.Avatar == "" {
		return nil, "", fmt.Errorf("%w: укажите все поля профиля", ErrValidation)
	}

	user, err := s.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, "", err
	}

	avatar := req.Avatar

	// новый аватар приходит как data URI, уже загруженный остаётся URL-ом
	if strings.HasPrefix(req.Avatar, "data:") {
		data, contentType, err := storage.DecodeDataURI(req.Avatar)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %v", ErrValidation, err)
		}

		if s.cfg.MaxUploadSize > 0 && int64(len(data)) > s.cfg.MaxUploadSize {
			return nil, "", fmt.Errorf("%w: размер медиа превышает %d байт", ErrValidation, s.cfg.MaxUploadSize)
		}

		_, avatarURL, err := s.storage.UploadMedia(ctx, "user-profiles", data, contentType)
		if err != nil {
			return nil, "", fmt.Errorf("ошибка загрузки аватара: %w", err)
		}

		avatar = avatarURL
	}

	user.Username = req.Username
	user.FullName = req.FullName
	user.Email = req.Email
	user.Bio = req.Bio
	user.Avatar = avatar

	err = s.userRepo.UpdateUser(ctx, user)
	if err != nil {
		return nil, "", err
	}

	user, err = s.loadUserWithGraph(ctx, req.UserID)
	if err != nil {
		return nil, "", err
	}

	// профиль в токене изменился - выпускаем новый
	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) SearchUsers(ctx context.Context, search string) ([]models.Profile, error) {
	return s.userRepo.SearchUsers(ctx, search)
}

func (s *userService) Follow(ctx context.Context, actorID, targetID string) (*models.User, string, error) {
	if targetID == "" {
		return nil, "", fmt.Errorf("%w: укажите пользователя", ErrValidation)
	}

	if actorID == targetID {
		return nil, "", fmt.Errorf("%w: нельзя подписаться на самого себя", ErrValidation)
	}

	err := s.userRepo.Follow(ctx, actorID, targetID)
	if err != nil {
		return nil, "", err
	}

	return s.reissueIdentity(ctx, actorID)
}

func (s *userService) Unfollow(ctx context.Context, actorID, targetID string) (*models.User, string, error) {
	if targetID == "" {
		return nil, "", fmt.Errorf("%w: укажите пользователя", ErrValidation)
	}

	if actorID == targetID {
		return nil, "", fmt.Errorf("%w: нельзя отписаться от самого себя", ErrValidation)
	}

	err := s.userRepo.Unfollow(ctx, actorID, targetID)
	if err != nil {
		return nil, "", err
	}

	return s.reissueIdentity(ctx, actorID)
}

// reissueIdentity - свежий профиль актора и новый токен после мутации графа
func (s *userService) reissueIdentity(ctx context.Context, actorID string) (*models.User, string, error) {
	user, err := s.loadUserWithGraph(ctx, actorID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.auth.GenerateToken(user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (s *userService) loadUserWithGraph(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Followers, err = s.userRepo.GetFollowers(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.Following, err = s.userRepo.GetFollowing(ctx, userID)
	if err != nil {
		return nil, err
	}

	return user, nil
}
