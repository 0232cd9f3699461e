package main

import (
	"context"
	"flag"
	"moviesocial/proj/internal/api/tasks"
	"moviesocial/proj/internal/config"
	"moviesocial/proj/internal/lib/logger"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const version = "1.0.0"

func main() {
	cfgPath := flag.String("config", "config/local.yml", "path to config file")
	flag.Parse()

	// .env is optional, real environment variables win.
	_ = godotenv.Load()
	cfg := config.MustLoad(*cfgPath)
	log := logger.SetupLogger(cfg.Debug, cfg.Log)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cache, err := openSearchCache(ctx, cfg.Storage)
	if err != nil {
		log.Error("failed to open search cache", "driver", cfg.Storage.Driver, "errMsg", err.Error())
		os.Exit(1)
	}
	defer cache.Close()
	log.Info("search cache ready", "driver", cfg.Storage.Driver)

	bgTasks := tasks.New(log, cfg.Tasks.MaxWorkers, cfg.Tasks.MaxQueueSize)
	bgTasks.Run()

	app := NewApplication(cfg, log, cache, bgTasks)
	if err := app.serve(bgTasks); err != nil {
		log.Error("shutting down the server", "reason", err.Error())
		os.Exit(1)
	}
}
