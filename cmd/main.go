package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/oklog/run"
	log "github.com/sirupsen/logrus"

	"github.com/autotrackhq/autotrack/internal/auth"
	"github.com/autotrackhq/autotrack/internal/chat"
	"github.com/autotrackhq/autotrack/internal/db"
	"github.com/autotrackhq/autotrack/internal/handlers"
	"github.com/autotrackhq/autotrack/internal/maintenance"
	"github.com/autotrackhq/autotrack/internal/middleware"
	"github.com/autotrackhq/autotrack/internal/notify"
	"github.com/autotrackhq/autotrack/internal/units"
)

func main() {
	// Best effort: a missing .env file is fine in containers.
	_ = godotenv.Load()

	configureLogging()

	client, err := db.ConnectMongo()
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	log.Info("Connected to MongoDB")

	dbName := os.Getenv("MONGO_DB")
	if dbName == "" {
		dbName = "autotrack"
	}
	collections := db.NewCollections(client.Database(dbName))

	authService, err := auth.NewService()
	if err != nil {
		log.WithError(err).Fatal("Failed to create auth service")
	}
	engine := maintenance.NewEngine()
	converter := units.NewConverter()
	chatClient := chat.NewClient()
	sender := notify.NewSendGridSender()
	scanner := notify.NewScanner(collections.Users, collections.Cars, collections.Tasks, collections.Notifications, engine, sender)

	handler := buildHandler(authService, collections, engine, converter, chatClient)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	server := &http.Server{
		Addr:    ":" + port,
		Handler: handler,
	}

	var g run.Group

	// OS signals.
	{
		signalCtx, signalCancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
		g.Add(
			func() error {
				<-signalCtx.Done()
				log.Info("Termination signal received")
				return nil
			},
			func(_ error) {
				signalCancel()
			},
		)
	}

	// HTTP server.
	{
		g.Add(
			func() error {
				log.WithField("addr", server.Addr).Info("HTTP server listening")
				return server.ListenAndServe()
			},
			func(_ error) {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				_ = server.Shutdown(shutdownCtx)
			},
		)
	}

	// Reminder scanner.
	{
		scanCtx, scanCancel := context.WithCancel(context.Background())
		interval := 24 * time.Hour
		if v := os.Getenv("REMINDER_INTERVAL"); v != "" {
			if parsed, err := time.ParseDuration(v); err == nil {
				interval = parsed
			}
		}

		g.Add(
			func() error {
				ticker := time.NewTicker(interval)
				defer ticker.Stop()
				for {
					select {
					case <-ticker.C:
						if err := scanner.Run(scanCtx); err != nil {
							log.WithError(err).Error("Reminder scan failed")
						}
					case <-scanCtx.Done():
						return nil
					}
				}
			},
			func(_ error) {
				scanCancel()
			},
		)
	}

	if err := g.Run(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("Server exited with error")
	}
}

func configureLogging() {
	level, err := log.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	if os.Getenv("LOG_FORMAT") == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	}
}

func buildHandler(authService *auth.Service, collections *db.Collections, engine *maintenance.Engine, converter *units.Converter, chatClient *chat.Client) http.Handler {
	authHandler := handlers.NewAuthHandler(authService, collections.Users)
	carsHandler := handlers.NewCarsHandler(collections.Cars, collections.Tasks, collections.MileageLogs)
	maintenanceHandler := handlers.NewMaintenanceHandler(collections.Tasks, collections.Cars, collections.Users, engine, converter)
	mileageHandler := handlers.NewMileageHandler(collections.MileageLogs, collections.Cars, collections.Users, converter)
	chatHandler := handlers.NewChatHandler(chatClient, collections.Cars, collections.Tasks)
	notificationsHandler := handlers.NewNotificationsHandler(collections.Notifications)
	settingsHandler := handlers.NewSettingsHandler(collections.Users)
	dashboardHandler := handlers.NewDashboardHandler(collections.Cars, collections.Tasks, engine)
	mechanicsHandler := handlers.NewMechanicsHandler()
	healthHandler := handlers.NewHealthHandler()

	mux := http.NewServeMux()
	mux.HandleFunc("/api/", healthHandler.Root)
	mux.HandleFunc("/api/health", healthHandler.Health)

	mux.HandleFunc("/api/auth/register", authHandler.Register)
	mux.HandleFunc("/api/auth/login", authHandler.Login)
	mux.HandleFunc("/api/auth/me", authHandler.Me)

	mux.HandleFunc("/api/cars", carsHandler.Collection)
	mux.HandleFunc("/api/cars/{id}", carsHandler.Item)

	mux.HandleFunc("/api/maintenance", maintenanceHandler.Collection)
	mux.HandleFunc("/api/maintenance/{id}", maintenanceHandler.Item)
	mux.HandleFunc("/api/maintenance/{id}/complete", maintenanceHandler.Complete)
	mux.HandleFunc("/api/maintenance/{id}/replacement", maintenanceHandler.Replacement)

	mux.HandleFunc("/api/mileage", mileageHandler.Create)
	mux.HandleFunc("/api/mileage/{car_id}", mileageHandler.List)

	mux.HandleFunc("/api/chat", chatHandler.Chat)

	mux.HandleFunc("/api/notifications", notificationsHandler.List)
	mux.HandleFunc("/api/notifications/{id}/read", notificationsHandler.MarkRead)
	mux.HandleFunc("/api/notifications/{id}", notificationsHandler.Delete)

	mux.HandleFunc("/api/settings", settingsHandler.Settings)
	mux.HandleFunc("/api/dashboard/stats", dashboardHandler.Stats)
	mux.HandleFunc("/api/mechanics/nearby", mechanicsHandler.Nearby)

	cors := middleware.NewCORSMiddleware()
	rateLimit := middleware.NewRateLimitMiddleware()
	authMiddleware := middleware.NewAuthMiddleware(authService)

	var handler http.Handler = mux
	handler = authMiddleware.Authenticate(handler)
	handler = rateLimit.RateLimit(300, 60)(handler)
	handler = cors.Handler(handler)
	return handler
}
