package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/optionsense/backend/internal/api"
	"github.com/optionsense/backend/internal/api/handlers"
	"github.com/optionsense/backend/internal/realtime"
	"github.com/optionsense/backend/internal/scheduler"
	"github.com/optionsense/backend/internal/scheduler/jobs"
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long: `Starts the REST API server with the WebSocket price feed and
background jobs.

Endpoints:
  GET /health
  GET /dashboard-snapshot?symbol=NIFTY
  GET /oi-details?symbol=NIFTY
  GET /stock-screener?filter=all
  GET /stock/{symbol}
  GET /stock/{symbol}/option-strategy
  GET /pro-analysis?symbol=NIFTY
  GET /pre-market
  GET /ws/prices

Example:
  go run ./cmd/optionsense api
  go run ./cmd/optionsense api --port 8000`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)
	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	c, err := buildComponents()
	if err != nil {
		return err
	}
	if apiPort != "" {
		c.cfg.Port = apiPort
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := realtime.NewHub(c.log)
	go hub.Run(ctx)

	broadcaster := realtime.NewBroadcaster(hub, c.resolver, c.log)
	broadcaster.Start(ctx)
	defer broadcaster.Stop()

	sched := scheduler.New(c.log)
	for _, job := range []scheduler.Job{
		jobs.NewPremarketWarmJob(c.premarket, c.log),
		jobs.NewUniverseRefreshJob(c.screener, c.log),
		jobs.NewChainCacheSweepJob(c.nse, c.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("register job: %w", err)
		}
	}
	sched.Start()
	defer sched.Stop()

	router := api.NewRouter(
		handlers.NewDashboardHandler(c.dashboard, c.log),
		handlers.NewStockHandler(c.screener, c.strategy, c.log),
		handlers.NewInsightHandler(c.analysis, c.premarket, c.log),
		hub.ServeWS,
		c.log,
	)
	server := api.New(c.cfg, c.log, router)

	go func() {
		if err := server.Start(); err != nil {
			c.log.WithError(err).Fatal("server failed")
		}
	}()

	fmt.Printf("Server running on http://localhost:%s\n", c.cfg.Port)
	fmt.Println("Press Ctrl+C to stop")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
