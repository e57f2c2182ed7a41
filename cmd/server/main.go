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

	"smarttrader/internal/api"
	"smarttrader/internal/app"
	"smarttrader/internal/config"
	"smarttrader/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] smarttrader server starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[WARN] load .env: %v", err)
	}

	cfg, err := config.Load(config.PathFromEnv())
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	predictor, err := app.NewPredictor(cfg)
	if err != nil {
		log.Fatalf("[FATAL] init predictor: %v", err)
	}

	rec := app.OpenRecorder(cfg)
	defer rec.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tn := app.NewNotifier(cfg)
	sched := scheduler.NewScheduler(ctx, predictor, tn, rec)
	sched.JobTimeout = cfg.Server.RequestTimeout
	if cfg.KeepAlive.Enabled {
		if err := sched.RegisterKeepAlive(cfg.KeepAlive.URL, cfg.KeepAlive.MinInterval, cfg.KeepAlive.MaxInterval); err != nil {
			log.Fatalf("[FATAL] register keep-alive: %v", err)
		}
	}
	if cfg.Schedule.DigestCron != "" {
		if err := sched.RegisterDigest(cfg.Schedule.DigestCron, cfg.Predictor.Ticker); err != nil {
			log.Fatalf("[FATAL] register digest: %v", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	handler := api.NewHandler(predictor, rec, cfg.Predictor.Ticker, cfg.Server.RequestTimeout)
	router := api.NewRouter(handler, cfg.Server.Env)
	srv := api.NewServer(":"+cfg.Server.Port, router, cfg.Server.AllowedOrigins, cfg.Server.RequestTimeout+10*time.Second)

	go func() {
		log.Printf("[INFO] listening on %s (env=%s)", srv.Addr, cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] http shutdown: %v", err)
	}
	log.Println("[INFO] smarttrader server stopped")
}
