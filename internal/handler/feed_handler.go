package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"instafeed/internal/models"
	"instafeed/internal/service"
)

type FeedResponse struct {
	Feed []models.Post `json:"feed"`
}

type SingleFeedResponse struct {
	Feed *models.Post `json:"feed"`
}

// GetAllFeed - глобальная лента, новые посты первыми
func (h *Handlers) GetAllFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	feed, err := h.FeedService.GetAllFeed(r.Context(), viewerID, limit)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, FeedResponse{Feed: feed}, http.StatusOK)
}

// GetFollowingFeed - посты авторов, на которых подписан зритель
func (h *Handlers) GetFollowingFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	feed, err := h.FeedService.GetFollowingFeed(r.Context(), viewerID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, FeedResponse{Feed: feed}, http.StatusOK)
}

func (h *Handlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	feed, err := h.FeedService.GetFeed(r.Context(), viewerID, postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, SingleFeedResponse{Feed: feed}, http.StatusOK)
}

func (h *Handlers) CreateFeed(w http.ResponseWriter, r *http.Request) {
	authorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req struct {
		Caption string `json:"caption" validate:"required"`
		Media   string `json:"post" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Caption == "" || req.Media == "" {
		WriteError(w, "Укажите все значения", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	feed, err := h.FeedService.CreateFeed(r.Context(), service.CreateFeedRequest{
		AuthorID: authorID,
		Caption:  req.Caption,
		Media:    req.Media,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, SingleFeedResponse{Feed: feed}, http.StatusCreated)
}

// LikeFeed - переключение лайка текущего пользователя
func (h *Handlers) LikeFeed(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	feed, err := h.FeedService.ToggleLike(r.Context(), actorID, postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, SingleFeedResponse{Feed: feed}, http.StatusOK)
}

func (h *Handlers) CommentFeed(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	var req struct {
		Comment string `json:"comment" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Comment == "" {
		WriteError(w, "Укажите текст комментария", http.StatusBadRequest)
		return
	}

	feed, err := h.FeedService.AddComment(r.Context(), actorID, postID, req.Comment)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, SingleFeedResponse{Feed: feed}, http.StatusOK)
}

func (h *Handlers) DeleteFeed(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	feed, err := h.FeedService.DeleteFeed(r.Context(), actorID, postID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, map[string]interface{}{"deleteFeed": feed}, http.StatusOK)
}
