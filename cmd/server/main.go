package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/subosito/gotenv"
	"go.uber.org/zap"

	"github.com/snapextract/snapextract/internal/auth"
	"github.com/snapextract/snapextract/internal/config"
	"github.com/snapextract/snapextract/internal/extract"
	"github.com/snapextract/snapextract/internal/profile"
	"github.com/snapextract/snapextract/internal/server"
	"github.com/snapextract/snapextract/internal/sheets"
	"github.com/snapextract/snapextract/pkg/database"
	"github.com/snapextract/snapextract/pkg/utils"
)

func main() {
	// Pick up a local .env before viper reads the environment
	_ = gotenv.Load()

	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := utils.NewLogger(utils.LoggerConfig{
		Level:      cfg.Logger.Level,
		OutputPath: cfg.Logger.OutputPath,
		Format:     cfg.Logger.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting SnapExtract",
		zap.String("version", "1.0.0"),
		zap.Int("port", cfg.Server.Port))

	db, err := database.New(database.Config{
		Path:            cfg.Database.Path,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}, logger)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	migrator := database.NewMigrator(db, logger)
	if err := migrator.RunMigrations(); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	authSvc := auth.NewService(auth.Config{
		Username: cfg.Auth.Username,
		Password: cfg.Auth.Password,
		TokenTTL: cfg.Auth.TokenTTL,
	}, db, logger)

	profileStore := profile.NewStore(db, logger)

	extractor := extract.NewOpenAIExtractor(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.Temperature,
		logger,
	)
	summarizer := extract.NewOpenAISummarizer(
		cfg.OpenAI.APIKey,
		cfg.OpenAI.Model,
		cfg.OpenAI.Temperature,
		logger,
	)
	converter := extract.NewConverter(logger)

	appender := sheets.NewSimulatedAppender(cfg.Sheets.SpreadsheetID, logger)

	srv := server.NewServer(server.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		ReadTimeout:        cfg.Server.ReadTimeout,
		WriteTimeout:       cfg.Server.WriteTimeout,
		MaxFileSizeMB:      cfg.Upload.MaxFileSizeMB,
		ExtractConcurrency: cfg.Upload.ExtractConcurrency,
	}, authSvc, profileStore, extractor, summarizer, converter, appender, logger)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		logger.Info("Shutting down server...")
		cancel()
	}()

	if err := srv.Start(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}

	logger.Info("Server exited successfully")
}
