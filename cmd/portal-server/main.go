package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/carelink/hms-core/internal/auth"
	"github.com/carelink/hms-core/internal/directory"
	"github.com/carelink/hms-core/internal/reports"
	"github.com/carelink/hms-core/internal/workflow"
	"github.com/carelink/hms-core/pkg/config"
	"github.com/carelink/hms-core/pkg/database"
	"github.com/carelink/hms-core/pkg/logger"
	"github.com/carelink/hms-core/pkg/monitoring"
)

func main() {
	// Load .env if present; real deployments configure the environment
	// directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel)
	log.Info("Starting portal server")

	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.WithError(err).Error("Failed to connect to database")
		os.Exit(1)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.CreateSchema(ctx); err != nil {
		cancel()
		log.WithError(err).Error("Failed to create database schema")
		os.Exit(1)
	}
	cancel()

	// Directory: accounts and principal resolution
	directoryRepo := directory.NewRepository(db, log)
	passwordManager := auth.NewPasswordManager()
	directoryService := directory.NewService(directoryRepo, passwordManager, log)
	directoryHandlers := directory.NewHandlers(directoryService, log)

	// Auth: sessions, credentials, federated callback
	sessionRepo := auth.NewRepository(db, log)
	sessionManager, err := auth.NewSessionManager(&cfg.Session, sessionRepo, directoryRepo, log)
	if err != nil {
		log.WithError(err).Error("Failed to initialize session manager")
		os.Exit(1)
	}
	identityVerifier := auth.NewIdentityVerifier(cfg.Identity.JWTSecret, cfg.Identity.Issuer)
	authHandlers := auth.NewHandlers(
		sessionManager,
		directoryRepo,
		passwordManager,
		identityVerifier,
		log,
		cfg.Session.CookieName,
		cfg.Server.SecureCookie,
	)

	// Workflow: assignments and notification fan-out
	workflowRepo := workflow.NewRepository(db, log)
	engine := workflow.NewEngine(workflowRepo, workflowRepo, directoryRepo, log)
	workflowHandlers := workflow.NewHandlers(engine, log)

	// Reports: filing, storage and doctor fan-out
	reportStore := reports.NewRepository(db, log)
	fileStore := reports.NewFileStore(cfg.Storage.BasePath, cfg.Storage.PublicURL)
	reportService := reports.NewService(reportStore, fileStore, engine, log)
	reportHandlers := reports.NewHandlers(reportService, log)

	router := mux.NewRouter()
	router.Use(monitoring.SecurityHeaders)
	router.Use(monitoring.Middleware(log))
	router.Use(auth.Middleware(sessionManager, cfg.Session.CookieName))

	router.HandleFunc(cfg.Monitoring.HealthPath, func(w http.ResponseWriter, r *http.Request) {
		status := "healthy"
		code := http.StatusOK
		if err := db.Health(); err != nil {
			status = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"status":    status,
			"service":   "portal-server",
			"timestamp": time.Now().UTC(),
		})
	}).Methods("GET")

	if cfg.Monitoring.Enabled {
		router.Handle(cfg.Monitoring.MetricsPath, monitoring.Handler()).Methods("GET")
	}

	authHandlers.RegisterRoutes(router)
	directoryHandlers.RegisterRoutes(router)
	workflowHandlers.RegisterRoutes(router)
	reportHandlers.RegisterRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Infof("HTTP server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down portal server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info("Portal server stopped")
}
