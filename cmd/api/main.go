package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/veldt-io/binstock/internal/checkout"
	"github.com/veldt-io/binstock/internal/config"
	"github.com/veldt-io/binstock/internal/database"
	"github.com/veldt-io/binstock/internal/handlers"
	"github.com/veldt-io/binstock/internal/importer"
	"github.com/veldt-io/binstock/internal/models"
	"github.com/veldt-io/binstock/internal/store"
	"github.com/veldt-io/binstock/internal/websocket"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// 2. Initialize database (detects embedded vs external automatically)
	db, err := database.Connect(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	// Note: db.Close() is called manually in the shutdown handler below

	// 3. Synchronize schema
	log.Println("🚀 Synchronizing database schema...")
	err = db.AutoMigrate(
		&models.Item{},
		&models.CheckoutEntry{},
		&models.SequenceCounter{},
	)
	if err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("✅ Schema synchronized successfully")

	// 4. Wire the engine
	itemStore := store.NewItemStore(db)
	if err := itemStore.Allocator().EnsureCounter(context.Background()); err != nil {
		log.Fatalf("Failed to seed sequence counter: %v", err)
	}

	manager := checkout.NewManager(db, itemStore)
	pipeline := importer.NewPipeline(itemStore)

	hub := websocket.NewHub()
	go hub.Run()

	// Every committed mutation pushes the full item set to ws clients
	unsubscribe := itemStore.Subscribe(hub.BroadcastSnapshot)
	defer unsubscribe()

	// 5. Set up HTTP router
	router := handlers.NewRouter(itemStore, manager, pipeline, hub, cfg.Labels)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Channel to listen for shutdown signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on port %s\n", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sig := <-shutdown
	log.Printf("\n⚠️  Received signal: %v. Shutting down gracefully...\n", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

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
