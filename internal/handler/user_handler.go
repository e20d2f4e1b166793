package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"

	"github.com/gorilla/mux"

	"instafeed/internal/models"
	"instafeed/internal/service"
)

type ProfileResponse struct {
	User *models.User  `json:"user"`
	Feed []models.Post `json:"feed"`
}

type SearchResponse struct {
	Users []models.Profile `json:"users"`
}

// GetUserProfile - профиль с графом подписок и постами пользователя
func (h *Handlers) GetUserProfile(w http.ResponseWriter, r *http.Request) {
	viewerID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	userID := mux.Vars(r)["id"]

	user, feed, err := h.UserService.GetProfile(r.Context(), viewerID, userID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, ProfileResponse{User: user, Feed: feed}, http.StatusOK)
}

func (h *Handlers) SearchUser(w http.ResponseWriter, r *http.Request) {
	if _, ok := r.Context().Value("userID").(string); !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	search := r.URL.Query().Get("search")

	users, err := h.UserService.SearchUsers(r.Context(), search)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, SearchResponse{Users: users}, http.StatusOK)
}

func (h *Handlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req struct {
		Username string `json:"username" validate:"required,min=3,max=50"`
		FullName string `json:"fullName" validate:"required,min=2,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Bio      string `json:"bio" validate:"required,max=160"`
		Avatar   string `json:"avatar" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Email == "" || req.Username == "" || req.FullName == "" || req.Bio == "" || req.Avatar == "" {
		WriteError(w, "Укажите все значения для обновления профиля", http.StatusBadRequest)
		return
	}

	// email verification
	patternEmail := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	matched, errorEmail := regexp.MatchString(patternEmail, req.Email)
	if errorEmail != nil || !matched {
		WriteError(w, "Неверный формат email", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Неверные данные", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.UpdateUser(r.Context(), service.UpdateUserRequest{
		UserID:   actorID,
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, token), http.StatusOK)
}

// FollowUser - подписка; в ответе обновлённый граф актора и свежий токен
func (h *Handlers) FollowUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req struct {
		UserID string `json:"userId" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.Follow(r.Context(), actorID, req.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, token), http.StatusOK)
}

func (h *Handlers) UnfollowUser(w http.ResponseWriter, r *http.Request) {
	actorID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Требуется аутентификация", http.StatusUnauthorized)
		return
	}

	var req struct {
		UserID string `json:"userId" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	user, token, err := h.UserService.Unfollow(r.Context(), actorID, req.UserID)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	writeSuccess(w, newAuthResponse(user, token), http.StatusOK)
}
