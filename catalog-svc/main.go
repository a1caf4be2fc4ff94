package main

import (
	"os"

	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/logging"
	"overcooked-catalog/catalog-svc/internal/service"
)

func main() {
	// replaced once the configured logger is built
	zap.ReplaceGlobals(logging.NewDefault().Logger)

	catalog := service.Default()

	if err := newRootCmd(catalog).Execute(); err != nil {
		zap.L().Error("catalog-svc failed", zap.Error(err))
		os.Exit(1)
	}
}
