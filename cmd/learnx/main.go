package main

import (
	"context"
	"fmt"
	"os"

	"github.com/timmy/learnx/internal/cli"
	"github.com/timmy/learnx/internal/logger"
)

func main() {
	// Command output goes to stdout; logs stay on stderr and quiet by default
	logCfg := logger.LoadFromEnv("learnx")
	logCfg.Output = os.Stderr
	if os.Getenv("LOG_LEVEL") == "" {
		logCfg.Level = "warn"
	}
	if os.Getenv("LOG_FORMAT") == "" {
		logCfg.Format = "text"
	}
	logger.SetDefaultLogger(logger.New(logCfg))

	ctx := context.Background()
	if err := cli.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err.Message)
		os.Exit(err.Code)
	}
}
