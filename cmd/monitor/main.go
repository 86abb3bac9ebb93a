package main

import (
	"log"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/autobridge/autobridge-api/internal/helpers"
	"github.com/autobridge/autobridge-api/internal/logger"
	"github.com/autobridge/autobridge-api/internal/server"
	"github.com/autobridge/autobridge-api/internal/worker"
)

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	server.InitializeHandlers()
	defer server.Shutdown()
	defer logger.Sync()

	bundle := server.Services
	cfg := bundle.Config

	maxFee := helpers.ParseWeiAmount(os.Getenv("MONITOR_MAX_FEE_WEI"))
	if maxFee == nil {
		maxFee = big.NewInt(0)
		logger.Warn("MONITOR_MAX_FEE_WEI not set, automated executions will not pay transport fees")
	}

	m := worker.NewMonitor(bundle.Bridge, bundle.Trigger, bundle.Orders, bundle.Alerts, worker.Config{
		PollInterval: cfg.MonitorPollInterval,
		WorkerCount:  cfg.MonitorWorkerCount,
		MaxFee:       maxFee,
	})

	// Seed the watchlist from the environment; the list grows at runtime
	// as users register.
	for _, user := range strings.Split(os.Getenv("MONITOR_USERS"), ",") {
		user = strings.TrimSpace(user)
		if user == "" {
			continue
		}
		if !helpers.IsAddressValid(user) {
			logger.Warn("Skipping invalid address in MONITOR_USERS", zap.String("address", user))
			continue
		}
		m.WatchUser(user)
	}

	m.Start()
	logger.Info("Monitor running")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	m.Stop()
}
