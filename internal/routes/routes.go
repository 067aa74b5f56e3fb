package routes

import (
	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/benjamintowle04/ua-backend/internal/config"
	"github.com/benjamintowle04/ua-backend/internal/events"
	"github.com/benjamintowle04/ua-backend/internal/handlers"
	"github.com/benjamintowle04/ua-backend/internal/middleware"
	"github.com/benjamintowle04/ua-backend/internal/models"
	"github.com/benjamintowle04/ua-backend/internal/repository"
	"github.com/benjamintowle04/ua-backend/internal/services"
	chatws "github.com/benjamintowle04/ua-backend/internal/websocket"
)

func RegisterRoutes(
	app *fiber.App,
	cfg *config.Config,
	db *pgxpool.Pool,
	log *logrus.Logger,
	publisher events.Publisher,
) error {
	userRepo := repository.NewUserRepository(db)
	memberProfileRepo := repository.NewMemberProfileRepository(db)
	coachProfileRepo := repository.NewCoachProfileRepository(db)
	skillRepo := repository.NewSkillRepository(db)
	connectionRepo := repository.NewConnectionRepository(db)
	connectionRequestRepo := repository.NewConnectionRequestRepository(db)
	sessionRequestRepo := repository.NewSessionRequestRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	conversationRepo := repository.NewConversationRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	var storageService services.StorageService
	if cfg.SupabaseURL != "" && cfg.SupabaseBucket != "" && cfg.SupabaseServiceKey != "" {
		storageService = services.NewSupabaseStorageService(cfg.SupabaseURL, cfg.SupabaseBucket, cfg.SupabaseServiceKey)
	}

	authHandler := handlers.NewAuthHandler(
		db,
		userRepo,
		memberProfileRepo,
		coachProfileRepo,
		cfg.JWTSecret,
	)
	profileService := services.NewProfileService(db, userRepo, memberProfileRepo, coachProfileRepo, skillRepo)
	onboardingHandler := handlers.NewOnboardingHandler(profileService, storageService, log)
	profileHandler := handlers.NewProfileHandler(profileService, storageService, log)
	coachSearchService := services.NewCoachSearchService(coachProfileRepo, skillRepo)
	coachSearchHandler := handlers.NewCoachSearchHandler(coachSearchService)

	connectionService := services.NewConnectionService(connectionRepo, memberProfileRepo, coachProfileRepo)
	connectionHandler := handlers.NewConnectionHandler(connectionService)
	connectionRequestService := services.NewConnectionRequestService(
		db, connectionRequestRepo, connectionRepo, userRepo, publisher)
	connectionRequestHandler := handlers.NewConnectionRequestHandler(connectionRequestService)
	sessionRequestService := services.NewSessionRequestService(
		db, sessionRequestRepo, sessionRepo, connectionRepo, userRepo, publisher)
	sessionRequestHandler := handlers.NewSessionRequestHandler(sessionRequestService)
	sessionService := services.NewSessionService(db, sessionRepo, userRepo, publisher)
	sessionHandler := handlers.NewSessionHandler(sessionService)

	chatHub := chatws.NewHub(log)
	go chatHub.Run()
	chatService := services.NewChatService(db, conversationRepo, messageRepo, connectionRepo, userRepo, publisher)
	chatHandler := handlers.NewChatHandler(chatService, chatHub, cfg.JWTSecret)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Get("/me", middleware.AuthRequired(cfg.JWTSecret), authHandler.Me)

	protected := api.Group("", middleware.AuthRequired(cfg.JWTSecret))

	protected.Post("/onboarding", onboardingHandler.Complete)
	protected.Get("/skills", profileHandler.ListSkills)

	members := protected.Group("/members")
	members.Put("/update/:uid", profileHandler.UpdateMember)
	members.Get("/:uid", profileHandler.GetMember)

	coaches := protected.Group("/coaches")
	coaches.Post("/sort", coachSearchHandler.Sort)
	coaches.Put("/update/:uid", profileHandler.UpdateCoach)
	coaches.Get("/:uid", profileHandler.GetCoach)

	edges := protected.Group("/connections")
	edges.Get("/member/:id", connectionHandler.ListForMember)
	edges.Get("/coach/:id", connectionHandler.ListForCoach)

	connections := protected.Group("/requests/connections")
	connections.Get("/pending/member/:id", connectionRequestHandler.ListPendingFor(models.RoleMember))
	connections.Get("/pending/coach/:id", connectionRequestHandler.ListPendingFor(models.RoleCoach))
	connections.Get("/pending/sent/member/:id", connectionRequestHandler.ListPendingSentFor(models.RoleMember))
	connections.Get("/pending/sent/coach/:id", connectionRequestHandler.ListPendingSentFor(models.RoleCoach))
	connections.Post("/member-to-coach", connectionRequestHandler.CreateFrom(models.RoleMember))
	connections.Post("/coach-to-member", connectionRequestHandler.CreateFrom(models.RoleCoach))
	connections.Put("/:id/accept/:receiverId", connectionRequestHandler.Accept)
	connections.Put("/:id/decline/:receiverId", connectionRequestHandler.Decline)
	connections.Put("/:id/cancel/:senderId", connectionRequestHandler.Cancel)

	sessionRequests := protected.Group("/requests/sessions")
	sessionRequests.Get("/pending/member/:id", sessionRequestHandler.ListPendingFor(models.RoleMember))
	sessionRequests.Get("/pending/coach/:id", sessionRequestHandler.ListPendingFor(models.RoleCoach))
	sessionRequests.Get("/pending/sent/member/:id", sessionRequestHandler.ListPendingSentFor(models.RoleMember))
	sessionRequests.Get("/pending/sent/coach/:id", sessionRequestHandler.ListPendingSentFor(models.RoleCoach))
	sessionRequests.Post("/member-to-coach", sessionRequestHandler.CreateFrom(models.RoleMember))
	sessionRequests.Post("/coach-to-member", sessionRequestHandler.CreateFrom(models.RoleCoach))
	sessionRequests.Put("/:id/accept/:receiverId", sessionRequestHandler.Accept)
	sessionRequests.Put("/:id/decline/:receiverId", sessionRequestHandler.Decline)
	sessionRequests.Put("/:id/cancel/:senderId", sessionRequestHandler.Cancel)

	sessions := protected.Group("/sessions")
	sessions.Get("", sessionHandler.List)
	sessions.Post("", sessionHandler.Create)
	sessions.Get("/coach/:id", sessionHandler.ListByCoach)
	sessions.Get("/member/:id", sessionHandler.ListByMember)
	sessions.Get("/request/:id", sessionHandler.ListByRequest)
	sessions.Get("/:id", sessionHandler.Get)
	sessions.Put("/:id", sessionHandler.Update)
	sessions.Delete("/:id", sessionHandler.Delete)

	conversations := protected.Group("/conversations")
	conversations.Get("", chatHandler.ListConversations)
	conversations.Post("", chatHandler.CreateConversation)
	conversations.Get("/:id/messages", chatHandler.GetMessages)

	api.Use("/ws", chatHandler.WebSocketAuth)
	api.Get("/ws", websocket.New(chatHandler.HandleWebSocket))

	return registerDocsRoutes(api, cfg)
}
