package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"instafeed/internal/models"
)

type FeedRepositoryImpl struct {
	db *sqlx.DB
}

func NewFeedRepository(db *sqlx.DB) *FeedRepositoryImpl {
	return &FeedRepositoryImpl{db: db}
}

// selectPosts - выборка поста с краткими профилями авторов (populate на чтении),
// агрегированным списком лайков и флагом liked для зрителя ($1)
const selectPosts = `
	SELECT p.post_id, p.author_id, p.caption, p.media_url, p.created_at,
	       u.user_id AS "postedby.user_id",
	       u.username AS "postedby.username",
	       u.full_name AS "postedby.full_name",
	       u.email AS "postedby.email",
	       u.avatar AS "postedby.avatar",
	       u.bio AS "postedby.bio",
	       array_remove(array_agg(l.user_id), NULL) AS likes,
	       EXISTS (SELECT 1 FROM likes WHERE post_id = p.post_id AND user_id = $1) AS liked
	FROM posts p
	JOIN users u ON u.user_id = p.author_id
	LEFT JOIN likes l ON l.post_id = p.post_id
`

func (r *FeedRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (post_id, author_id, caption, media_url, created_at)
		VALUES (:post_id, :author_id, :caption, :media_url, :created_at)
	`

	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}

	post.CreatedAt = time.Now()

	_, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	return nil
}

func (r *FeedRepositoryImpl) GetByID(ctx context.Context, viewerID, postID string) (*models.Post, error) {
	query := selectPosts + `
		WHERE p.post_id = $2
		GROUP BY p.post_id, u.user_id
	`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, viewerID, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: пост с ID %s", ErrNotFound, postID)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	err = r.loadComments(ctx, []*models.Post{&post})
	if err != nil {
		return nil, err
	}

	return &post, nil
}

func (r *FeedRepositoryImpl) GetAll(ctx context.Context, viewerID string, limit int) ([]models.Post, error) {
	query := selectPosts + `
		GROUP BY p.post_id, u.user_id
		ORDER BY p.created_at DESC
		LIMIT $2
	`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, viewerID, limit)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты: %w", err)
	}

	err = r.loadCommentsSlice(ctx, posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// GetFollowing - лента подписок; множество подписок читается из БД на каждом
// запросе, снимку из токена не доверяем
func (r *FeedRepositoryImpl) GetFollowing(ctx context.Context, viewerID string) ([]models.Post, error) {
	query := selectPosts + `
		WHERE p.author_id IN (SELECT followee_id FROM follows WHERE follower_id = $1)
		GROUP BY p.post_id, u.user_id
		ORDER BY p.created_at DESC
	`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении ленты подписок: %w", err)
	}

	err = r.loadCommentsSlice(ctx, posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *FeedRepositoryImpl) GetByAuthorID(ctx context.Context, viewerID, authorID string) ([]models.Post, error) {
	query := selectPosts + `
		WHERE p.author_id = $2
		GROUP BY p.post_id, u.user_id
		ORDER BY p.created_at DESC
	`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, viewerID, authorID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов пользователя: %w", err)
	}

	err = r.loadCommentsSlice(ctx, posts)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

// ToggleLike - атомарное добавление/снятие лайка по ключу (post_id, user_id).
// Ветка выбирается по числу вставленных строк, без read-modify-write в коде
func (r *FeedRepositoryImpl) ToggleLike(ctx context.Context, postID, userID string) error {
	insertQuery := `
		INSERT INTO likes (post_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT (post_id, user_id) DO NOTHING
	`

	result, err := r.db.ExecContext(ctx, insertQuery, postID, userID)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return fmt.Errorf("%w: пост с ID %s", ErrNotFound, postID)
		}
		return fmt.Errorf("ошибка при добавлении лайка: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке вставленных строк: %w", err)
	}

	// лайк уже стоял - снимаем
	if rowsAffected == 0 {
		deleteQuery := `DELETE FROM likes WHERE post_id = $1 AND user_id = $2`

		_, err = r.db.ExecContext(ctx, deleteQuery, postID, userID)
		if err != nil {
			return fmt.Errorf("ошибка при снятии лайка: %w", err)
		}
	}

	return nil
}

func (r *FeedRepositoryImpl) AddComment(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (comment_id, post_id, user_id, comment_text, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if comment.CommentID == "" {
		comment.CommentID = uuid.New().String()
	}

	comment.CreatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		comment.CommentID,
		comment.PostID,
		comment.CommentedBy.UserID,
		comment.Comment,
		comment.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "foreign key") {
			return fmt.Errorf("%w: пост с ID %s", ErrNotFound, comment.PostID)
		}
		return fmt.Errorf("ошибка при добавлении комментария: %w", err)
	}

	return nil
}

func (r *FeedRepositoryImpl) Delete(ctx context.Context, postID string) error {
	query := `DELETE FROM posts WHERE post_id = $1`

	result, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: пост с ID %s", ErrNotFound, postID)
	}

	return nil
}

// loadComments - догрузка комментариев одним запросом на всю страницу,
// в хронологическом порядке добавления
func (r *FeedRepositoryImpl) loadComments(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	postIDs := make([]string, 0, len(posts))
	byID := make(map[string]*models.Post, len(posts))
	for _, post := range posts {
		post.Comments = []models.Comment{}
		postIDs = append(postIDs, post.PostID)
		byID[post.PostID] = post
	}

	query := `
		SELECT c.comment_id, c.post_id, c.comment_text, c.created_at,
		       u.user_id AS "commentedby.user_id",
		       u.username AS "commentedby.username",
		       u.full_name AS "commentedby.full_name",
		       u.email AS "commentedby.email",
		       u.avatar AS "commentedby.avatar",
		       u.bio AS "commentedby.bio"
		FROM comments c
		JOIN users u ON u.user_id = c.user_id
		WHERE c.post_id = ANY($1)
		ORDER BY c.created_at, c.comment_id
	`

	comments := []models.Comment{}
	err := r.db.SelectContext(ctx, &comments, query, pq.Array(postIDs))
	if err != nil {
		return fmt.Errorf("ошибка при получении комментариев: %w", err)
	}

	for _, comment := range comments {
		if post, ok := byID[comment.PostID]; ok {
			post.Comments = append(post.Comments, comment)
		}
	}

	return nil
}

func (r *FeedRepositoryImpl) loadCommentsSlice(ctx context.Context, posts []models.Post) error {
	refs := make([]*models.Post, len(posts))
	for i := range posts {
		refs[i] = &posts[i]
	}
	return r.loadComments(ctx, refs)
}
