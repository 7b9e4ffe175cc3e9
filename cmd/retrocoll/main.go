package main

import (
	"context"
	"os"

	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/retrocoll/internal/cli"
)

func main() {
	level := os.Getenv("RETROCOLL_LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	logger.Init("", level, 0, 0, 0, true)
	if err := cli.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("exec cli failed", zap.Error(err))
		os.Exit(1)
	}
}
