// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"screen-star/cmd"
	"screen-star/internal/changefeed"
	"screen-star/internal/data/repository"
	"screen-star/internal/integration"
	"screen-star/internal/jobs"
	"screen-star/internal/usecase"
	"screen-star/internal/wire"
	"screen-star/pkg/database"
	"screen-star/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		return err
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		logger.Error("Failed to migrate schema", zap.Error(err))
		return err
	}
	logger.Info("Database connected successfully")

	// Redis carries the change feed and the per-session commit lock
	redisClient, err := database.InitRedis(config.Redis)
	if err != nil {
		logger.Error("Failed to connect to redis", zap.Error(err))
		return err
	}
	defer redisClient.Close()

	feedLogger := changefeed.NewLogger(logger)
	streamPub, err := changefeed.NewRedisPublisher(redisClient, feedLogger)
	if err != nil {
		return err
	}
	streamSub, err := changefeed.NewRedisSubscriber(redisClient, feedLogger)
	if err != nil {
		return err
	}
	changes := changefeed.NewPublisher(streamPub)
	defer changes.Close()
	feed := changefeed.NewSubscriber(streamSub, logger)
	defer feed.Close()

	events := integration.NewEventPublisher(config.Broker, logger)
	defer events.Close()

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, usecase.Dependencies{
		Changes: changes,
		Feed:    feed,
		Events:  events,
		Guard:   usecase.NewRedisCommitGuard(redisClient, config.Reservation.CommitLockTTL, logger),
	}, config, logger)

	housekeeping, err := jobs.NewHousekeeping(app.Service.Schedule, config.Housekeeping.Interval, logger)
	if err != nil {
		logger.Error("Failed to create housekeeping scheduler", zap.Error(err))
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return cmd.APIServer(gctx, app.Router, config.App.Port, logger)
	})
	g.Go(func() error {
		return housekeeping.Run(gctx)
	})

	err = g.Wait()
	logger.Info("Application stopped", zap.Error(err))
	return err
}
