package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/cors"

	"github.com/aeroaudit/flightcheck/internal/config"
	"github.com/aeroaudit/flightcheck/internal/db"
	"github.com/aeroaudit/flightcheck/internal/export"
	"github.com/aeroaudit/flightcheck/internal/icao"
	"github.com/aeroaudit/flightcheck/internal/ingest"
	"github.com/aeroaudit/flightcheck/internal/middleware"
	"github.com/aeroaudit/flightcheck/internal/repository"
)

func main() {
	// Create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Setup database connection
	conn, err := db.NewConnection(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer conn.Close()

	// Run migrations
	if err := db.RunMigrations(cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create repositories
	invalidCodeRepo := repository.NewInvalidCodeRepository(conn.Pool)
	airportRepo := repository.NewAirportRepository(conn.Pool)
	aliasRepo := repository.NewCountryAliasRepository(conn.Pool)
	logRepo := repository.NewValidationLogRepository(conn)

	// External collaborators
	lookup := icao.NewHTTPLookup(cfg.Lookup.BaseURL, cfg.Lookup.APIToken)
	var disambiguator icao.CountryDisambiguator
	if cfg.OpenAI.APIKey != "" {
		disambiguator = icao.NewOpenAIDisambiguator(cfg.OpenAI.APIKey, cfg.OpenAI.Model)
	}

	service := ingest.NewService(lookup, disambiguator, invalidCodeRepo, airportRepo, aliasRepo, logRepo)

	// Setup CORS
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
	})

	exporter := export.NewService()

	mux := http.NewServeMux()
	mux.Handle("/validate", ingest.NewHTTPHandler(service, exporter))
	mux.Handle("/validate/logs", ingest.NewAuditHandler(logRepo))

	handler := middleware.LoggingMiddleware(corsHandler.Handler(mux))

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting validation server on %s", cfg.Server.Addr)
		log.Printf("Upload endpoint available at POST %s/validate", cfg.Server.Addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
