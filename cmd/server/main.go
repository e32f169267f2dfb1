package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neutraledu-backend/internal/config"
	"neutraledu-backend/internal/database"
	"neutraledu-backend/internal/flow"
	"neutraledu-backend/internal/handlers"
	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/repository"
	"neutraledu-backend/internal/router"
	"neutraledu-backend/internal/services"
	"neutraledu-backend/internal/websocket"
)

func main() {
	log.Println("🚀 Starting NeutralEdu Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Clients ────
	redisClients, err := database.NewRedisClients(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClients.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	userRepo := repository.NewUserRepo(pool)
	artifactRepo := repository.NewArtifactRepo(pool)
	ticketRepo := repository.NewTicketRepo(pool)
	goalRepo := repository.NewGoalRepo(pool)
	whiteboardRepo := repository.NewWhiteboardRepo(pool)

	// ──── Step 5: Initialize Gemini Backend ────
	// Without an API key the flow runner stays up and answers every
	// request with a not-configured narrative.
	var backend flow.Backend
	if cfg.GeminiAPIKey != "" {
		geminiService, err := services.NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiConcurrentReqs)
		if err != nil {
			log.Fatalf("✗ Gemini client initialization failed: %v", err)
		}
		defer geminiService.Close()
		backend = geminiService
		log.Println("✓ Gemini client initialized")
	} else {
		log.Println("⚠ GEMINI_API_KEY not set, flows will report not-configured")
	}
	runner := flow.NewRunner(backend)

	// ──── Initialize Services ────
	jwtAuth := middleware.NewJWTAuth(cfg.JWTSecret)
	emailService := services.NewEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom, cfg.FrontendURL)
	youtubeService := services.NewYouTubeService(redisClients.Cache)
	fileExtractService := services.NewFileExtractService()
	pdfRenderService := services.NewPdfRenderService(cfg.RenderTimeoutSeconds)
	authService := services.NewAuthService(userRepo, redisClients.Cache, jwtAuth)

	// ──── Initialize Handlers ────
	authHandler := handlers.NewAuthHandler(authService, cfg.QuotaFree)
	flowHandler := handlers.NewFlowHandler(runner, userRepo, artifactRepo, youtubeService, fileExtractService, pdfRenderService)
	transcriptHandler := handlers.NewTranscriptHandler(youtubeService)
	ticketHandler := handlers.NewTicketHandler(ticketRepo, redisClients.PubSub)
	goalHandler := handlers.NewGoalHandler(goalRepo)
	whiteboardHandler := handlers.NewWhiteboardHandler(whiteboardRepo)
	artifactHandler := handlers.NewArtifactHandler(artifactRepo)
	userHandler := handlers.NewUserHandler(userRepo)
	adminHandler := handlers.NewAdminHandler(userRepo, ticketRepo, emailService, redisClients.PubSub, cfg.QuotaForPlan)

	// ──── Step 6: Start WebSocket Hub ────
	wsHub := websocket.NewHub(redisClients.PubSub, cfg.JWTSecret)
	log.Println("✓ WebSocket hub started")

	// ──── Step 7: Start HTTP Server ────
	r := router.New(
		jwtAuth,
		authHandler,
		flowHandler,
		transcriptHandler,
		ticketHandler,
		goalHandler,
		whiteboardHandler,
		artifactHandler,
		userHandler,
		adminHandler,
		wsHub,
		cfg.FrontendURL,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: time.Duration(cfg.RenderTimeoutSeconds+15) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ NeutralEdu Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api/v1", cfg.Port)
	log.Printf("  WS:  ws://localhost:%s/api/v1/ws", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
