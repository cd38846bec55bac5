package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/accountability-buddy/api/internal/config"
	"github.com/accountability-buddy/api/internal/database"
	"github.com/accountability-buddy/api/internal/handlers"
	"github.com/accountability-buddy/api/internal/jobs"
	"github.com/accountability-buddy/api/internal/repository"
	"github.com/accountability-buddy/api/internal/scheduler"
	"github.com/accountability-buddy/api/internal/services"
	"github.com/accountability-buddy/api/pkg/logger"
	"github.com/accountability-buddy/api/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

func main() {
	// Load configuration from .env file
	cfg := config.LoadConfig()

	logger.InitLogger()
	logger.Log.Info("Logger initialized")

	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// --- Repositories ---
	userRepo := repository.NewUserRepository(db)
	goalRepo := repository.NewCollaborationGoalRepository(db)
	invitationRepo := repository.NewInvitationRepository(db)
	friendRepo := repository.NewFriendRepository(db)
	badgeRepo := repository.NewBadgeRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	feedRepo := repository.NewFeedRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	chatRepo := repository.NewChatRepository(db)

	// --- Services ---
	userService := services.NewUserService(userRepo)
	collaborationService := services.NewCollaborationService(goalRepo, invitationRepo, userRepo)
	friendService := services.NewFriendService(friendRepo, userRepo)
	badgeService := services.NewBadgeService(badgeRepo, userRepo)
	groupService := services.NewGroupService(groupRepo)
	feedService := services.NewFeedService(feedRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	activityService := services.NewActivityService(activityRepo)
	chatService := services.NewChatService(chatRepo)

	// --- Handlers ---
	userHandler := handlers.NewUserHandler(userService, cfg)
	collaborationHandler := handlers.NewCollaborationHandler(collaborationService, badgeService, activityService, notificationService)
	friendHandler := handlers.NewFriendHandler(friendService)
	badgeHandler := handlers.NewBadgeHandler(badgeService)
	groupHandler := handlers.NewGroupHandler(groupService)
	feedHandler := handlers.NewFeedHandler(feedService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	activityHandler := handlers.NewActivityHandler(activityService)
	chatHandler := handlers.NewChatHandler(chatService, cfg.JWTSecret)

	// Initialize Gorilla Mux router
	router := mux.NewRouter()

	// Goal routes
	goalRoutes := router.PathPrefix("/goals").Subrouter()
	goalRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	goalRoutes.Use(middleware.UpdateLastActiveMiddleware(userService))
	goalRoutes.HandleFunc("", collaborationHandler.CreateGoalHandler).Methods("POST")
	goalRoutes.HandleFunc("", collaborationHandler.GetGoalsHandler).Methods("GET")
	goalRoutes.HandleFunc("/count", collaborationHandler.CountGoalsHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}", collaborationHandler.GetGoalHandler).Methods("GET")
	goalRoutes.HandleFunc("/{id}", collaborationHandler.UpdateGoalHandler).Methods("PUT")
	goalRoutes.HandleFunc("/{id}", collaborationHandler.DeleteGoalHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/{id}/progress", collaborationHandler.UpdateProgressHandler).Methods("PATCH")
	goalRoutes.HandleFunc("/{id}/leave", collaborationHandler.LeaveGoalHandler).Methods("POST")
	goalRoutes.HandleFunc("/{id}/participants/{userId}", collaborationHandler.RemoveParticipantHandler).Methods("DELETE")
	goalRoutes.HandleFunc("/{id}/invitations", collaborationHandler.SendInvitationsHandler).Methods("POST")
	goalRoutes.HandleFunc("/{id}/invitations", collaborationHandler.GetSentInvitationsHandler).Methods("GET")

	// Invitation routes
	invitationRoutes := router.PathPrefix("/invitations").Subrouter()
	invitationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	invitationRoutes.HandleFunc("/pending", collaborationHandler.GetPendingInvitationsHandler).Methods("GET")
	invitationRoutes.HandleFunc("/{id}/accept", collaborationHandler.AcceptInvitationHandler).Methods("POST")
	invitationRoutes.HandleFunc("/{id}/decline", collaborationHandler.DeclineInvitationHandler).Methods("POST")
	invitationRoutes.HandleFunc("/{id}", collaborationHandler.CancelInvitationHandler).Methods("DELETE")

	// User routes
	router.HandleFunc("/users/register", userHandler.RegisterUserHandler).Methods("POST")
	router.HandleFunc("/users/login", userHandler.LoginUserHandler).Methods("POST")

	protectedUserRoutes := router.PathPrefix("/users").Subrouter()
	protectedUserRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	protectedUserRoutes.HandleFunc("/{id}", userHandler.GetUserHandler).Methods("GET")
	protectedUserRoutes.HandleFunc("/{id}", userHandler.UpdateUserHandler).Methods("PATCH")

	// Friend routes
	friendRoutes := router.PathPrefix("/friends").Subrouter()
	friendRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	friendRoutes.HandleFunc("/{id}/request", friendHandler.SendFriendRequestHandler).Methods("POST")
	friendRoutes.HandleFunc("/requests", friendHandler.GetPendingRequestsHandler).Methods("GET")
	friendRoutes.HandleFunc("/requests/{id}/respond", friendHandler.RespondToFriendRequestHandler).Methods("POST")
	friendRoutes.HandleFunc("", friendHandler.GetFriendsHandler).Methods("GET")
	friendRoutes.HandleFunc("/{id}", friendHandler.RemoveFriendHandler).Methods("DELETE")

	// Group routes
	groupRoutes := router.PathPrefix("/groups").Subrouter()
	groupRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	groupRoutes.HandleFunc("", groupHandler.CreateGroupHandler).Methods("POST")
	groupRoutes.HandleFunc("", groupHandler.GetMyGroupsHandler).Methods("GET")
	groupRoutes.HandleFunc("/public", groupHandler.GetPublicGroupsHandler).Methods("GET")
	groupRoutes.HandleFunc("/{id}", groupHandler.GetGroupHandler).Methods("GET")
	groupRoutes.HandleFunc("/{id}", groupHandler.DeleteGroupHandler).Methods("DELETE")
	groupRoutes.HandleFunc("/{id}/join", groupHandler.JoinGroupHandler).Methods("POST")
	groupRoutes.HandleFunc("/{id}/leave", groupHandler.LeaveGroupHandler).Methods("POST")

	// Badge routes
	badgeRoutes := router.PathPrefix("/badges").Subrouter()
	badgeRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	badgeRoutes.HandleFunc("", badgeHandler.GetMyBadgesHandler).Methods("GET")

	// Feed routes
	feedRoutes := router.PathPrefix("/feed").Subrouter()
	feedRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	feedRoutes.HandleFunc("/posts", feedHandler.CreatePostHandler).Methods("POST")
	feedRoutes.HandleFunc("/posts", feedHandler.GetFeedHandler).Methods("GET")
	feedRoutes.HandleFunc("/posts/{id}", feedHandler.GetPostHandler).Methods("GET")
	feedRoutes.HandleFunc("/posts/{id}/like", feedHandler.LikePostHandler).Methods("POST")
	feedRoutes.HandleFunc("/books", feedHandler.RecommendBookHandler).Methods("POST")
	feedRoutes.HandleFunc("/books", feedHandler.GetBooksHandler).Methods("GET")

	// Notification routes
	notificationRoutes := router.PathPrefix("/notifications").Subrouter()
	notificationRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	notificationRoutes.HandleFunc("", notificationHandler.GetNotificationsHandler).Methods("GET")
	notificationRoutes.HandleFunc("/{id}/read", notificationHandler.MarkNotificationReadHandler).Methods("POST")
	notificationRoutes.HandleFunc("/{id}", notificationHandler.DeleteNotificationHandler).Methods("DELETE")

	// Activity routes
	activityRoutes := router.PathPrefix("/activities").Subrouter()
	activityRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	activityRoutes.HandleFunc("", activityHandler.GetMyActivitiesHandler).Methods("GET")

	// Chat: WebSocket auth happens via the token query parameter
	router.HandleFunc("/ws/chat", chatHandler.ChatWebSocketHandler)
	chatRoutes := router.PathPrefix("/messages").Subrouter()
	chatRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	chatRoutes.HandleFunc("/{id}", chatHandler.GetChatHistoryHandler).Methods("GET")

	// Admin routes
	adminRoutes := router.PathPrefix("/admin").Subrouter()
	adminRoutes.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	adminRoutes.Use(middleware.RequireRole("admin"))
	adminRoutes.HandleFunc("/users", userHandler.AdminGetAllUsersHandler).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	// Background cleanup jobs
	sweeper := jobs.NewInvitationSweeper(invitationRepo, goalRepo)
	scheduler.StartBackgroundJobs(sweeper, notificationService)

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	})

	handler := c.Handler(router)

	fmt.Printf("Server running on port %s\n", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, handler))
}
