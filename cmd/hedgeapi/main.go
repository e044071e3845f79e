package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/omerorhan/hedging-calculator/internal/api"
	"github.com/omerorhan/hedging-calculator/internal/config"
	"github.com/omerorhan/hedging-calculator/internal/logger"
	"github.com/omerorhan/hedging-calculator/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		// logger level comes from config, so this one goes to stderr
		_, _ = os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	lg, undo, err := logger.NewGlobal(cfg.LogLevel)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to init logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer undo()

	calc, err := service.NewHedgeCalculator(append(cfg.ServiceOptions(), service.WithLogger(lg))...)
	if err != nil {
		lg.Fatal("Failed to create hedge calculator", zap.Error(err))
	}
	defer calc.Close()

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           api.NewRouter(calc, lg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		lg.Info("🚀 Hedge API listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			lg.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	lg.Info("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		lg.Error("Graceful shutdown failed", zap.Error(err))
	}
	lg.Info("✅ Hedge API stopped")
}
