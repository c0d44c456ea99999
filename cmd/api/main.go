package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/semiologia/semiologia-api/internal/config"
	"github.com/semiologia/semiologia-api/internal/handler"
	"github.com/semiologia/semiologia-api/internal/middleware"
	pgRepo "github.com/semiologia/semiologia-api/internal/repository/postgres"
	redisRepo "github.com/semiologia/semiologia-api/internal/repository/redis"
	"github.com/semiologia/semiologia-api/internal/service"
	"github.com/semiologia/semiologia-api/internal/service/session"
	"github.com/semiologia/semiologia-api/internal/websocket"
	"github.com/semiologia/semiologia-api/pkg/auth"
	"github.com/semiologia/semiologia-api/pkg/database"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Loading configuration from %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Repositories
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	questionRepo := pgRepo.NewQuestionRepo(db)
	competitionRepo := pgRepo.NewCompetitionRepo(db)
	friendRepo := pgRepo.NewFriendRepo(db)
	summaryRepo := pgRepo.NewSummaryRepo(db)
	mindmapRepo := pgRepo.NewMindmapRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to init cache repository: %v", err)
		os.Exit(1)
	}

	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs, cfg.JWT.WSTicketExpirySec)
	if err != nil {
		log.Printf("Failed to init JWT service: %v", err)
		os.Exit(1)
	}

	// Root context cancelled on shutdown; stops the session reaper.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := websocket.NewHub()

	sessionCfg := session.DefaultConfig()
	sessionCfg.QuestionTime = time.Duration(cfg.Competition.QuestionTimeSec) * time.Second
	sessionManager := session.NewManager(sessionCfg, time.Duration(cfg.Competition.SessionTTLMin)*time.Minute)
	go sessionManager.RunReaper(ctx)

	var emailService service.EmailService = &service.NoopEmailService{}
	if cfg.Email.Enabled {
		emailService, err = service.NewResendEmailService(cfg.Email.ResendAPIKey, cfg.Email.From)
		if err != nil {
			log.Printf("Failed to init email service: %v", err)
			os.Exit(1)
		}
		log.Println("Email notifications enabled")
	}

	// Services
	authService := service.NewAuthService(userRepo, jwtService)
	userService := service.NewUserService(userRepo, cacheRepo)
	quizService := service.NewQuizService(quizRepo, questionRepo, cacheRepo)
	studyService := service.NewStudyService(summaryRepo, mindmapRepo, cacheRepo)
	friendService := service.NewFriendService(friendRepo, userRepo, hub)
	competitionService := service.NewCompetitionService(
		competitionRepo, questionRepo, quizRepo, userRepo, cacheRepo,
		sessionManager, hub, emailService,
	)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	quizHandler := handler.NewQuizHandler(quizService)
	studyHandler := handler.NewStudyHandler(studyService)
	friendHandler := handler.NewFriendHandler(friendService)
	competitionHandler := handler.NewCompetitionHandler(competitionService)
	wsHandler := handler.NewWSHandler(hub, jwtService, cfg.Server.AllowedOrigins)

	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	isProduction := os.Getenv("GIN_MODE") == "release"

	router := gin.Default()

	// ClientIP trust: no proxy headers in production unless fronted by a
	// known load balancer.
	if isProduction {
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/ws", wsHandler.Connect)

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", rateLimiter.Limit(middleware.StrictAuthRateLimitConfig()), authHandler.Register)
			authGroup.POST("/login", rateLimiter.Limit(middleware.DefaultAuthRateLimitConfig()), authHandler.Login)
			authGroup.POST("/ws-ticket", authMiddleware.RequireAuth(), authHandler.WSTicket)
		}

		users := api.Group("/users", authMiddleware.RequireAuth())
		{
			users.GET("/me", authHandler.Me)
			users.PUT("/me", authHandler.UpdateProfile)
			users.PUT("/me/password", authHandler.ChangePassword)
			users.GET("/:user_id",
				middleware.ExtractUUIDParam("user_id", handler.ContextProfileID),
				userHandler.GetProfile)
		}

		api.GET("/leaderboard", authMiddleware.RequireAuth(), userHandler.Leaderboard)

		quizzes := api.Group("/quizzes", authMiddleware.RequireAuth())
		{
			quizzes.GET("", quizHandler.List)
			quizzes.GET("/categories", quizHandler.Categories)
			quizzes.GET("/:quiz_id",
				middleware.ExtractUUIDParam("quiz_id", handler.ContextQuizID),
				quizHandler.Get)
			quizzes.GET("/:quiz_id/questions",
				middleware.ExtractUUIDParam("quiz_id", handler.ContextQuizID),
				quizHandler.Questions)
		}

		summaries := api.Group("/summaries", authMiddleware.RequireAuth())
		{
			summaries.GET("", studyHandler.ListSummaries)
			summaries.GET("/categories", studyHandler.SummaryCategories)
		}

		mindmaps := api.Group("/mindmaps", authMiddleware.RequireAuth())
		{
			mindmaps.GET("", studyHandler.ListMindmaps)
			mindmaps.GET("/categories", studyHandler.MindmapCategories)
		}

		friends := api.Group("/friends", authMiddleware.RequireAuth())
		{
			friends.GET("", friendHandler.List)
			friends.GET("/search", friendHandler.Search)
			friends.POST("/requests", friendHandler.SendRequest)
			friends.GET("/requests", friendHandler.ListRequests)
			friends.POST("/requests/:request_id/accept",
				middleware.ExtractUUIDParam("request_id", handler.ContextRequestID),
				friendHandler.AcceptRequest)
			friends.POST("/requests/:request_id/reject",
				middleware.ExtractUUIDParam("request_id", handler.ContextRequestID),
				friendHandler.RejectRequest)
			friends.DELETE("/:friend_id",
				middleware.ExtractUUIDParam("friend_id", handler.ContextFriendID),
				friendHandler.Delete)
		}

		competitions := api.Group("/competitions", authMiddleware.RequireAuth())
		{
			competitions.POST("", competitionHandler.CreateChallenge)
			competitions.GET("/received", competitionHandler.ListReceived)
			competitions.GET("/completed", competitionHandler.ListCompleted)

			withID := competitions.Group("/:competition_id",
				middleware.ExtractUUIDParam("competition_id", handler.ContextCompetitionID))
			{
				withID.POST("/accept", competitionHandler.Accept)
				withID.POST("/reject", competitionHandler.Reject)
				withID.POST("/session", competitionHandler.StartSession)
				withID.POST("/score", competitionHandler.SubmitScore)
				withID.GET("/completion", competitionHandler.CheckCompletion)
				withID.GET("/ranking", competitionHandler.Ranking)
			}
		}

		sessions := api.Group("/sessions", authMiddleware.RequireAuth())
		{
			withID := sessions.Group("/:session_id",
				middleware.ExtractUUIDParam("session_id", handler.ContextSessionID))
			{
				withID.GET("", competitionHandler.GetSession)
				withID.POST("/answer", competitionHandler.Answer)
				withID.POST("/timeout", competitionHandler.Timeout)
				withID.POST("/submit", competitionHandler.SubmitResult)
				withID.GET("/completion", competitionHandler.PollSessionCompletion)
			}
		}

		admin := api.Group("/admin", authMiddleware.RequireAuth(), authMiddleware.RequireAdmin())
		{
			admin.POST("/quizzes", quizHandler.Create)
			admin.POST("/quizzes/import", quizHandler.Import)
		}
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	log.Println("Server exited properly")
}
