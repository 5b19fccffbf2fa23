package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"video-transcriber/pkg/assemblyai"
	"video-transcriber/pkg/config"
	"video-transcriber/pkg/db"
	"video-transcriber/pkg/httpapi"
	"video-transcriber/pkg/storage"
	"video-transcriber/pkg/transcribe"
)

func main() {
	cfg := config.Load()
	if cfg.AssemblyAIKey == "" {
		log.Fatal("ASSEMBLYAI_API_KEY is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbClient := db.NewClient(cfg.MongoURI, cfg.DBName, cfg.Collection)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	if err := dbClient.Connect(connectCtx); err != nil {
		cancel()
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	cancel()
	defer func() {
		if err := dbClient.Close(context.Background()); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		}
	}()

	mediaStore, err := storage.NewStore(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare upload directory: %v", err)
	}

	provider := assemblyai.NewClient(assemblyai.ClientConfig{APIKey: cfg.AssemblyAIKey})

	poller := transcribe.NewPoller(transcribe.PollerConfig{
		Store:     dbClient,
		Provider:  provider,
		Interval:  cfg.PollInterval,
		Workers:   cfg.PollWorkers,
		QueueSize: cfg.PollQueueSize,
	})
	poller.Start(ctx)

	service := transcribe.NewService(dbClient, provider, poller, cfg.LanguageCode)

	srv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: httpapi.NewRouter(dbClient, mediaStore, service),
	}

	go func() {
		log.Printf("Server listening on port %s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// In-flight polls observe the cancelled signal context and finish their
	// current provider call before exiting.
	poller.Wait()
	log.Println("Shutdown complete")
}
