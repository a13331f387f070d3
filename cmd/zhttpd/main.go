// Command zhttpd is the entry point for the zhttpd origin server.
package main

import (
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	"github.com/KimMachineGun/automemlimit/memlimit"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// Match GOMAXPROCS to the container CPU quota, matching Caddy's own
	// cmd/main.go.
	undo, err := maxprocs.Set(maxprocs.Logger(logger.Sugar().Infof))
	defer undo()
	if err != nil {
		logger.Warn("failed to set GOMAXPROCS", zap.Error(err))
	}

	_, _ = memlimit.SetGoMemLimitWithOpts(
		memlimit.WithProvider(
			memlimit.ApplyFallback(memlimit.FromCgroup, memlimit.FromSystem),
		),
	)

	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
