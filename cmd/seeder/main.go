package main

import (
	"go-leavemgmt/internal/app"
	"go-leavemgmt/internal/config"
	"go-leavemgmt/internal/shared/apperror"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := zap.NewDevelopment()
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	apperror.Init()

	if err := app.RunSeeder(cfg); err != nil {
		logger.Fatal("run seeder failed", zap.Error(err))
	}
}
