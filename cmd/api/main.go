package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/makialabs/makia-oracle/backend/internal/config"
	"github.com/makialabs/makia-oracle/backend/internal/handler"
	"github.com/makialabs/makia-oracle/backend/internal/model/profile"
	"github.com/makialabs/makia-oracle/backend/internal/service/ai"
	"github.com/makialabs/makia-oracle/backend/internal/service/session"
	"github.com/makialabs/makia-oracle/backend/internal/service/speech"
	"github.com/makialabs/makia-oracle/backend/internal/service/tutor"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	if !cfg.AI.Enabled() {
		log.Fatal("chat model credentials are not configured")
	}
	if cfg.Speech.BaseURL == "" {
		log.Fatal("SPEECH_GATEWAY_URL is not configured")
	}

	profileStore := profile.NewMemoryStore(profile.Seed())
	sessionStore := session.NewStore()

	sweeper := session.NewSweeper(sessionStore, cfg.Session.TTL)
	sweeper.Start(ctx)
	defer sweeper.Stop()

	generator, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize AI service: %v", err)
	}

	gateway := speech.NewGatewayClient(&cfg.Speech)
	transcriber := speech.NewTranscriber(gateway, &cfg.Speech)
	audioWriter := speech.NewAudioWriter(gateway, cfg.Speech.AudioDir)

	pipeline := tutor.NewService(profileStore, sessionStore, transcriber, generator, audioWriter)

	router := handler.NewRouter(profileStore, pipeline, handler.Options{
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		AudioDir:       cfg.Speech.AudioDir,
	})

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("MAKIA Oracle backend listening on %s", serverCfg.Addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
