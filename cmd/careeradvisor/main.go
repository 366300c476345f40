// Package main contains the entrypoint for the career advisor HTTP service.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/edgard/careeradvisor/internal/advisor"
	"github.com/edgard/careeradvisor/internal/app"
	"github.com/edgard/careeradvisor/internal/app/tasks"
	"github.com/edgard/careeradvisor/internal/config"
	"github.com/edgard/careeradvisor/internal/database"
	"github.com/edgard/careeradvisor/internal/gemini"
	"github.com/edgard/careeradvisor/internal/logger"
	"github.com/edgard/careeradvisor/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := run(ctx)
	stop()
	os.Exit(exitCode)
}

// run initializes all components (config, logger, gemini client, optional
// history store and scheduler, HTTP server), blocks until shutdown, and
// returns the process exit code.
func run(ctx context.Context) int {
	configPath := flag.String("config", "./config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "path", *configPath, "error", err)
		return 1
	}

	log := logger.NewLogger(cfg.Logger.Level, cfg.Logger.JSON)
	slog.SetDefault(log)
	log.Info("Logger initialized", "level", cfg.Logger.Level, "json", cfg.Logger.JSON)

	if cfg.Logger.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	gemClient, err := gemini.NewClient(ctx, cfg.Gemini, log)
	if err != nil {
		log.Error("Failed to initialize Gemini client", "error", err)
		return 1
	}

	deps := server.Deps{
		Logger:  log,
		Config:  cfg.Server,
		History: cfg.History,
		Model:   gemClient.Model(),
		Advisor: advisor.NewAdvisor(gemClient, log),
		Relay:   advisor.NewRelay(gemClient, log),
	}

	var sched *app.Scheduler
	if cfg.History.Enabled {
		db, err := database.NewDB(cfg.History.Path)
		if err != nil {
			log.Error("Failed to open history database", "path", cfg.History.Path, "error", err)
			return 1
		}
		defer database.CloseDB(db)

		store := database.NewStore(db, log)
		deps.Store = store

		taskMap := tasks.RegisterAllTasks(tasks.TaskDeps{Logger: log, Store: store, Config: cfg})
		sched, err = app.NewScheduler(log, &cfg.Scheduler, taskMap)
		if err != nil {
			log.Error("Failed to create scheduler", "error", err)
			return 1
		}
	} else {
		log.Info("Request history disabled; scheduler not started")
	}

	service := app.New(log, cfg, server.New(deps).HTTPServer(), sched)

	log.Info("Starting career advisor...", "addr", cfg.Server.Addr, "model", gemClient.Model())
	if err := service.Run(ctx); err != nil {
		log.Error("Career advisor stopped due to error", "error", err)
		// Allow logs to flush before exiting on error
		time.Sleep(time.Second)
		return 1
	}

	log.Info("Career advisor stopped gracefully.")
	return 0
}
