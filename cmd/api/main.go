package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/buildinfo"
	"github.com/anhardeni/tps40-merak-sub001/internal/config"
	"github.com/anhardeni/tps40-merak-sub001/internal/database"
	"github.com/anhardeni/tps40-merak-sub001/internal/handlers"
	"github.com/anhardeni/tps40-merak-sub001/internal/refnumber"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/diagnostics"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/transmission"
	"github.com/anhardeni/tps40-merak-sub001/internal/soap"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/anhardeni/tps40-merak-sub001/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Unknown service names are a deployment error, not a runtime one
	services, err := vault.ValidateServiceNames(cfg.Beacukai.Services)
	if err != nil {
		log.Fatalf("Invalid BEACUKAI_SERVICES: %v", err)
	}

	sealer, err := vault.NewSealer(cfg.EncKey)
	if err != nil {
		log.Fatalf("Invalid ENC_KEY: %v", err)
	}

	refs, err := refnumber.NewGenerator(cfg.RefNumber.Prefix, cfg.Location)
	if err != nil {
		log.Fatalf("Invalid REF_PREFIX: %v", err)
	}

	// 2. Initialize database (Detects Embedded vs External automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in shutdown handler below

	// 3. Auto-Migrate Schema
	log.Println("🚀 Synchronizing database schema...")
	if err := db.AutoMigrate(); err != nil {
		log.Printf("⚠️ Migration warning: %v\n", err)
	} else {
		log.Println("✅ Schema synchronized successfully")
	}

	// 4. Wire services
	creds := vault.New(db, sealer)
	for _, s := range services {
		cred, err := creds.GetActiveByService(context.Background(), s)
		switch {
		case err != nil:
			log.Printf("⚠️ No active credential for %s (%s)", s, s.Description())
		case !vault.IsConfigured(cred):
			log.Printf("⚠️ Credential for %s is incomplete", s)
		default:
			log.Printf("🔑 Credential for %s ready (test mode: %v)", s, cred.IsTestMode)
		}
	}

	client := soap.NewClient(cfg.Beacukai.Timeout)
	hub := websocket.NewHub()
	go hub.Run()

	transmissions := transmission.NewService(db, creds, client, transmission.Options{
		UploadAction:    cfg.Beacukai.UploadAction,
		BulkConcurrency: cfg.Beacukai.BulkConcurrency,
		ClaimTTL:        cfg.Beacukai.Timeout + time.Minute,
	})
	transmissions.SetNotifier(hub)

	router := handlers.NewRouter(handlers.Deps{
		DB:            db,
		Documents:     documents.NewService(db, refs),
		Transmissions: transmissions,
		Vault:         creds,
		Diagnostics: diagnostics.NewService(db, creds, client, diagnostics.Options{
			UploadAction: cfg.Beacukai.UploadAction,
			StatusAction: cfg.Beacukai.StatusAction,
		}),
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
	})

	// 5. Start server with graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 TPS40 Merak CoCoTangki server %s (%s) starting on port %s\n", buildinfo.Version, cfg.NodeEnv, cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	// In-flight SOAP calls may take up to the configured timeout
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Beacukai.Timeout+5*time.Second)
	defer cancel()

	// Shutdown HTTP server
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	// Close database (this also stops embedded PostgreSQL)
	log.Println("🛑 Closing database connection...")
	if err := db.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}
