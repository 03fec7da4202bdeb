package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/campushub/api/internal/config"
	"github.com/campushub/api/internal/database"
	"github.com/campushub/api/internal/handler"
	"github.com/campushub/api/internal/jobs"
	"github.com/campushub/api/internal/middleware"
	"github.com/campushub/api/internal/repository"
	"github.com/campushub/api/internal/service"
	"github.com/campushub/api/pkg/jwt"
)

func main() {
	// Initialize structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection
	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx := context.Background()
	if err := db.Connect(ctx); err != nil {
		slog.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	slog.Info("connected to database",
		slog.String("host", cfg.Database.Host),
		slog.String("database", cfg.Database.Database),
	)

	// Initialize JWT service
	jwtService, err := jwt.NewService(jwt.Config{
		PrivateKeyPath: cfg.JWT.PrivateKeyPath,
		PublicKeyPath:  cfg.JWT.PublicKeyPath,
		Issuer:         cfg.JWT.Issuer,
		ExpirationMins: cfg.JWT.ExpirationMins,
	})
	if err != nil {
		slog.Error("failed to initialize JWT service", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	eventRepo := repository.NewEventRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reminderRepo := repository.NewReminderRepository(db)

	// Initialize services
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:   userRepo,
		JWTService: jwtService,
	})
	notificationService := service.NewNotificationService(service.NotificationServiceConfig{
		NotificationRepo: notificationRepo,
	})
	registryService := service.NewRegistryService(service.RegistryServiceConfig{
		EventRepo: eventRepo,
		UserRepo:  userRepo,
		Notifier:  notificationService,
	})
	reminderService := service.NewReminderService(service.ReminderServiceConfig{
		EventRepo:    eventRepo,
		ReminderRepo: reminderRepo,
		Notifier:     notificationService,
		Lookahead:    cfg.Reminder.Lookahead,
	})

	// Initialize rate limiter and idempotency store
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimitConfig{})
	defer rateLimiter.Stop()

	idempotencyStore := middleware.NewIdempotencyStore(middleware.IdempotencyConfig{})
	defer idempotencyStore.Stop()

	// Start background jobs
	reminderScanner := jobs.NewReminderScanner(reminderService, cfg.Reminder.Interval)
	reminderScanner.Start()
	defer reminderScanner.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(db)
	authHandler := handler.NewAuthHandler(authService)
	eventHandler := handler.NewEventHandler(registryService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	checkinHandler := handler.NewCheckInHandler(registryService, reminderService, cfg.Server.PublicOrigin)

	// Create router and register routes
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("GET /health", healthHandler.Health)

	// Auth endpoints (public)
	mux.HandleFunc("POST /v1/auth/signup", authHandler.Signup)
	mux.HandleFunc("POST /v1/auth/login", authHandler.Login)

	// Auth endpoints (protected)
	authMiddleware := middleware.Auth(authService)
	mux.Handle("GET /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PATCH /v1/auth/me", authMiddleware(http.HandlerFunc(authHandler.UpdateMe)))

	// Event endpoints (browsing is public, everything else requires auth)
	mux.HandleFunc("GET /v1/events", eventHandler.ListEvents)
	mux.HandleFunc("GET /v1/events/{eventId}", eventHandler.GetEvent)
	mux.Handle("POST /v1/events", authMiddleware(http.HandlerFunc(eventHandler.CreateEvent)))
	mux.Handle("PATCH /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.UpdateEvent)))
	mux.Handle("DELETE /v1/events/{eventId}", authMiddleware(http.HandlerFunc(eventHandler.DeleteEvent)))

	// Registration endpoints
	mux.Handle("POST /v1/events/{eventId}/register", authMiddleware(http.HandlerFunc(eventHandler.Register)))
	mux.Handle("POST /v1/events/{eventId}/unregister", authMiddleware(http.HandlerFunc(eventHandler.Unregister)))
	mux.Handle("GET /v1/events/{eventId}/registration", authMiddleware(http.HandlerFunc(eventHandler.RegistrationState)))
	mux.Handle("POST /v1/events/{eventId}/rsvp", authMiddleware(http.HandlerFunc(eventHandler.ConfirmRSVP)))
	mux.Handle("DELETE /v1/events/{eventId}/rsvp", authMiddleware(http.HandlerFunc(eventHandler.CancelRSVP)))
	mux.Handle("POST /v1/events/{eventId}/bookmark", authMiddleware(http.HandlerFunc(eventHandler.ToggleBookmark)))

	// Check-in endpoints. The QR page checks authenticated visitors
	// in directly, so it carries optional auth.
	mux.Handle("POST /v1/events/{eventId}/checkin", authMiddleware(http.HandlerFunc(checkinHandler.CheckIn)))
	mux.Handle("GET /event/{eventId}/checkin",
		middleware.OptionalAuth(authService)(http.HandlerFunc(checkinHandler.CheckInPage)))

	// Notification endpoints
	mux.Handle("GET /v1/notifications", authMiddleware(http.HandlerFunc(notificationHandler.List)))
	mux.Handle("GET /v1/notifications/unread-count", authMiddleware(http.HandlerFunc(notificationHandler.UnreadCount)))
	mux.Handle("POST /v1/notifications/{notificationId}/read", authMiddleware(http.HandlerFunc(notificationHandler.MarkRead)))
	mux.Handle("DELETE /v1/notifications", authMiddleware(http.HandlerFunc(notificationHandler.Clear)))

	// Reminder endpoints
	mux.Handle("POST /v1/reminders/scan", authMiddleware(http.HandlerFunc(checkinHandler.ScanReminders)))

	// Apply global middleware
	wrapped := middleware.Chain(
		mux,
		middleware.RequestID,
		middleware.Logger,
		middleware.Recovery,
		middleware.CORS(cfg.Server.AllowedOrigins),
		middleware.RateLimit(rateLimiter),
		middleware.Idempotency(idempotencyStore),
		middleware.Compress,
	)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      wrapped,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Server.Port),
			slog.String("env", cfg.Server.Env),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", slog.String("error", err.Error()))
	}

	slog.Info("server exited")
}
