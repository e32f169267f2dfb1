package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"neutraledu-backend/internal/handlers"
	"neutraledu-backend/internal/middleware"
	"neutraledu-backend/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	flowHandler *handlers.FlowHandler,
	transcriptHandler *handlers.TranscriptHandler,
	ticketHandler *handlers.TicketHandler,
	goalHandler *handlers.GoalHandler,
	whiteboardHandler *handlers.WhiteboardHandler,
	artifactHandler *handlers.ArtifactHandler,
	userHandler *handlers.UserHandler,
	adminHandler *handlers.AdminHandler,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/refresh", authHandler.Refresh)

			// Logout requires auth
			r.Group(func(r chi.Router) {
				r.Use(jwtAuth.Middleware)
				r.Post("/logout", authHandler.Logout)
			})
		})

		// ──── Flow Routes ────
		r.Route("/flows", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/exam-report", flowHandler.ExamReport)
			r.Post("/flashcards", flowHandler.Flashcards)
			r.Post("/study-plan", flowHandler.StudyPlan)
			r.Post("/pdf-summary", flowHandler.PdfSummary)
			r.Post("/pdf-summary/render", flowHandler.RenderPdfSummary)
			r.Post("/test", flowHandler.Test)
			r.Post("/video-summary", flowHandler.VideoSummary)
		})

		// ──── Tool Routes ────
		r.Route("/tools", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/youtube-transcript", transcriptHandler.Get)
		})

		// ──── Ticket Routes ────
		r.Route("/tickets", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", ticketHandler.Create)
			r.Get("/", ticketHandler.ListMine)
			r.Get("/{id}", ticketHandler.Get)
			r.Post("/{id}/messages", ticketHandler.Reply)
			r.Post("/{id}/close", ticketHandler.Close)
		})

		// ──── Goal Routes ────
		r.Route("/goals", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", goalHandler.Create)
			r.Get("/", goalHandler.List)
			r.Put("/{id}/progress", goalHandler.UpdateProgress)
			r.Delete("/{id}", goalHandler.Delete)
		})

		// ──── Whiteboard Routes ────
		r.Route("/whiteboards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/", whiteboardHandler.Create)
			r.Get("/", whiteboardHandler.List)
			r.Get("/{id}", whiteboardHandler.Get)
			r.Put("/{id}", whiteboardHandler.Update)
			r.Delete("/{id}", whiteboardHandler.Delete)
		})

		// ──── Artifact Routes ────
		r.Route("/artifacts", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", artifactHandler.List)
			r.Get("/{id}", artifactHandler.Get)
			r.Delete("/{id}", artifactHandler.Delete)
		})

		// ──── User Routes ────
		r.Route("/user", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/me", userHandler.Me)
			r.Put("/me", userHandler.UpdateProfile)
			r.Put("/password", userHandler.ChangePassword)
		})

		// ──── Admin Routes ────
		r.Route("/admin", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Use(middleware.RequireAdmin)
			r.Get("/users", adminHandler.ListUsers)
			r.Put("/users/{id}", adminHandler.UpdateUser)
			r.Get("/tickets", adminHandler.ListTickets)
			r.Post("/tickets/{id}/answer", adminHandler.AnswerTicket)
			r.Post("/tickets/{id}/close", adminHandler.CloseTicket)
			r.Get("/models", adminHandler.ModelAliases)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
