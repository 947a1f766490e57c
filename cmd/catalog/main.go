package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"item-catalog/internal/config"
	"item-catalog/internal/repository"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		return 2
	}
	name, args := os.Args[1], os.Args[2:]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	zap.ReplaceGlobals(logger)
	defer logger.Sync()

	// The codec needs no store.
	if name == "slug" {
		if err := runSlug(os.Stdout, args); err != nil {
			fmt.Fprint(os.Stderr, usage)
			return 2
		}
		return 0
	}

	db, err := repository.NewDB(cfg.DatabaseURL, logger)
	if err != nil {
		zap.L().Error("db", zap.Error(err))
		return 1
	}
	if sqlDB, err := db.DB(); err == nil {
		defer sqlDB.Close()
	}

	cli := newApp(db, cfg, os.Stdout)
	if err := cli.run(ctx, name, args); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprint(os.Stderr, usage)
			return 2
		case repository.IsConstraintViolation(err):
			zap.L().Error("constraint violation", zap.String("command", name), zap.Error(err))
		case errors.Is(err, context.Canceled):
			return 0
		default:
			zap.L().Error("command failed", zap.String("command", name), zap.Error(err))
		}
		return 1
	}
	return 0
}

func newLogger(cfg config.Config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	zapConfig := zap.NewProductionConfig()
	if cfg.LogFormat == "console" {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)
	zapConfig.OutputPaths = []string{"stderr"}
	return zapConfig.Build()
}
