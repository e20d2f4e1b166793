package service

import (
	"context"
	"fmt"

	"instafeed/internal/config"
	"instafeed/internal/models"
	"instafeed/internal/repository"
	"instafeed/internal/storage"
)

type CreateFeedRequest struct {
	AuthorID string `json:"-"`
	Caption  string `json:"caption"`
	Media    string `json:"post"`
}

type FeedService interface {
	GetAllFeed(ctx context.Context, viewerID string, limit int) ([]models.Post, error)
	GetFollowingFeed(ctx context.Context, viewerID string) ([]models.Post, error)
	GetUserFeed(ctx context.Context, viewerID, authorID string) ([]models.Post, error)
	GetFeed(ctx context.Context, viewerID, postID string) (*models.Post, error)
	CreateFeed(ctx context.Context, req CreateFeedRequest) (*models.Post, error)
	ToggleLike(ctx context.Context, actorID, postID string) (*models.Post, error)
	AddComment(ctx context.Context, actorID, postID, text string) (*models.Post, error)
	DeleteFeed(ctx context.Context, actorID, postID string) (*models.Post, error)
}

type feedService struct {
	feedRepo repository.FeedRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewFeedService(feedRepo repository.FeedRepository, storage storage.Storage, cfg *config.Config) FeedService {
	return &feedService{
		feedRepo: feedRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

func (s *feedService) GetAllFeed(ctx context.Context, viewerID string, limit int) ([]models.Post, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}

	return s.feedRepo.GetAll(ctx, viewerID, limit)
}

func (s *feedService) GetFollowingFeed(ctx context.Context, viewerID string) ([]models.Post, error) {
	return s.feedRepo.GetFollowing(ctx, viewerID)
}

func (s *feedService) GetUserFeed(ctx context.Context, viewerID, authorID string) ([]models.Post, error) {
	return s.feedRepo.GetByAuthorID(ctx, viewerID, authorID)
}

func (s *feedService) GetFeed(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	return s.feedRepo.GetByID(ctx, viewerID, postID)
}

func (s *feedService) CreateFeed(ctx context.Context, req CreateFeedRequest) (*models.Post, error) {
	if req.Caption == "" || req.Media == "" {
		return nil, fmt.Errorf("%w: укажите подпись и медиа", ErrValidation)
	}

	// медиа приходит как data URI; в БД сохраняется только постоянный URL
	data, contentType, err := storage.DecodeDataURI(req.Media)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	if s.cfg.MaxUploadSize > 0 && int64(len(data)) > s.cfg.MaxUploadSize {
		return nil, fmt.Errorf("%w: размер медиа превышает %d байт", ErrValidation, s.cfg.MaxUploadSize)
	}

	objectName, mediaURL, err := s.storage.UploadMedia(ctx, "feeds", data, contentType)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки медиа: %w", err)
	}

	post := &models.Post{
		AuthorID: req.AuthorID,
		Caption:  req.Caption,
		MediaURL: mediaURL,
	}

	err = s.feedRepo.Create(ctx, post)
	if err != nil {
		s.storage.DeleteMedia(ctx, objectName)
		return nil, err
	}

	return s.feedRepo.GetByID(ctx, req.AuthorID, post.PostID)
}

func (s *feedService) ToggleLike(ctx context.Context, actorID, postID string) (*models.Post, error) {
	err := s.feedRepo.ToggleLike(ctx, postID, actorID)
	if err != nil {
		return nil, err
	}

	return s.feedRepo.GetByID(ctx, actorID, postID)
}

func (s *feedService) AddComment(ctx context.Context, actorID, postID, text string) (*models.Post, error) {
	if text == "" {
		return nil, fmt.Errorf("%w: укажите текст комментария", ErrValidation)
	}

	comment := &models.Comment{
		PostID:      postID,
		Comment:     text,
		CommentedBy: models.Profile{UserID: actorID},
	}

	err := s.feedRepo.AddComment(ctx, comment)
	if err != nil {
		return nil, err
	}

	return s.feedRepo.GetByID(ctx, actorID, postID)
}

// DeleteFeed - удалить пост может только его автор
func (s *feedService) DeleteFeed(ctx context.Context, actorID, postID string) (*models.Post, error) {
	post, err := s.feedRepo.GetByID(ctx, actorID, postID)
	if err != nil {
		return nil, err
	}

	if post.AuthorID != actorID {
		return nil, fmt.Errorf("%w: пост принадлежит другому пользователю", ErrForbidden)
	}

	err = s.feedRepo.Delete(ctx, postID)
	if err != nil {
		return nil, err
	}

	return post, nil
}
