package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"instafeed/cmd/app"
	"instafeed/internal/config"
	handlers "instafeed/internal/handler"
	"instafeed/internal/middleware"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg)

	router := mux.NewRouter()
	router.HandleFunc("/health", handler.HealthHandler).Methods(http.MethodGet)

	// setting up routes
	api := router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/auth/register", handler.Register).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", handler.Login).Methods(http.MethodPost)

	api.HandleFunc("/feed", handler.GetAllFeed).Methods(http.MethodGet)
	api.HandleFunc("/feed", handler.CreateFeed).Methods(http.MethodPost)
	api.HandleFunc("/feed/explore/getFollowing", handler.GetFollowingFeed).Methods(http.MethodGet)
	api.HandleFunc("/feed/like/{id}", handler.LikeFeed).Methods(http.MethodPatch)
	api.HandleFunc("/feed/{id}", handler.GetFeed).Methods(http.MethodGet)
	api.HandleFunc("/feed/{id}", handler.CommentFeed).Methods(http.MethodPatch)
	api.HandleFunc("/feed/{id}", handler.DeleteFeed).Methods(http.MethodDelete)

	api.HandleFunc("/user/userProfile/{id}", handler.GetUserProfile).Methods(http.MethodGet)
	api.HandleFunc("/user/search/user", handler.SearchUser).Methods(http.MethodGet)
	api.HandleFunc("/user/user", handler.UpdateUser).Methods(http.MethodPatch)
	api.HandleFunc("/user/followUser", handler.FollowUser).Methods(http.MethodPatch)
	api.HandleFunc("/user/unFollowUser", handler.UnfollowUser).Methods(http.MethodPatch)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
		middleware.AuthMiddleware(cfg),
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	fmt.Printf("Сервер запущен на %s\n", addr)
	fmt.Printf("База данных: %s\n", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
