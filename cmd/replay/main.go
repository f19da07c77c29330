package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/vstrike/internal/replay"
	"github.com/okian/vstrike/pkg/logger"
)

const defaultTimeout = 2 * time.Minute

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, help, err := replay.ParseFlags(args, os.Stderr)
	if err != nil {
		return 2
	}
	if help {
		return 0
	}

	if err := logger.Init(logger.WithOutput(os.Stderr)); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rep, err := replay.Run(ctx, cfg)
	if err != nil {
		logger.Get().Error(ctx, "replay failed", logger.Error(err))
		return 1
	}
	if err := replay.WriteReport(rep, cfg.Output, os.Stdout); err != nil {
		logger.Get().Error(ctx, "write report failed", logger.Error(err))
		return 1
	}
	return 0
}
