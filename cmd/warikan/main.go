package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ksuda/warikan/internal/api"
	"github.com/ksuda/warikan/internal/config"
	"github.com/ksuda/warikan/internal/db"
	"github.com/ksuda/warikan/internal/mailer"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Connect to database
	database, err := db.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize API server
	apiServer := api.New(cfg, database, mailer.New(cfg))

	// Sweep expired magic-link tokens in the background
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := database.PurgeExpiredLoginTokens(context.Background(), time.Now()); err != nil {
				log.Printf("Failed to purge login tokens: %v", err)
			} else if n > 0 {
				log.Printf("Purged %d expired login tokens", n)
			}
		}
	}()

	// Start API server
	go func() {
		if err := apiServer.Start(); err != nil {
			log.Printf("API server error: %v", err)
		}
	}()

	// Wait for signal to stop
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
}
