package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/mushtum/mushtumgram/internal/config"
	"github.com/mushtum/mushtumgram/internal/server"
	"github.com/mushtum/mushtumgram/internal/telegram"
)

func main() {
	_ = godotenv.Load()

	cfgDir := config.Dir()
	cfgPath := filepath.Join(cfgDir, "config.yaml")

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config from %s: %v\n", cfgPath, err)
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Session file lives next to the config, like the TUI's own data.
	os.MkdirAll(cfgDir, 0700)
	sessionPath := filepath.Join(cfgDir, "session.json")

	bridge := telegram.NewBridge(sessionPath, logger)
	defer bridge.Close()

	// Reload a persisted session so check-session reports an already
	// authenticated account after a restart.
	resumeCtx, resumeCancel := context.WithTimeout(context.Background(), 15*time.Second)
	if err := bridge.Resume(resumeCtx, cfg.Telegram.APIID, cfg.Telegram.APIHash); err != nil {
		logger.Warn("session resume failed", zap.Error(err))
	}
	resumeCancel()

	srv := server.New(bridge, logger)

	httpSrv := &http.Server{
		Addr:    cfg.Backend.Listen,
		Handler: srv.Handler,
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("proxy listening", zap.String("addr", cfg.Backend.Listen))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
}
