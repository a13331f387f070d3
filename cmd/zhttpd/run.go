package main

import (
	"context"
	"fmt"
	"net"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/Z1ni/zhttpd/internal/config"
	"github.com/Z1ni/zhttpd/internal/engine"
	"github.com/Z1ni/zhttpd/internal/mimedetect"
	"github.com/Z1ni/zhttpd/internal/supervisor"
	"github.com/Z1ni/zhttpd/internal/zlog"
)

func newRunCommand() *cobra.Command {
	var configPath, webroot, listen string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the server in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(configPath, webroot, listen)
		},
	}

	var flags *pflag.FlagSet = cmd.Flags()
	flags.StringVar(&configPath, "config", "", "Path to a TOML configuration file")
	flags.StringVar(&webroot, "webroot", "", "Override the configured document root")
	flags.StringVar(&listen, "listen", "", "Override the configured listen address:port")

	return cmd
}

func runServer(configPath, webrootOverride, listenOverride string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if webrootOverride != "" {
		cfg.Webroot = webrootOverride
	}
	if listenOverride != "" {
		host, port, err := net.SplitHostPort(listenOverride)
		if err != nil {
			return fmt.Errorf("invalid --listen value %q: %w", listenOverride, err)
		}
		cfg.ListenAddress = host
		portNum, err := strconv.Atoi(port)
		if err != nil {
			return fmt.Errorf("invalid --listen port %q: %w", port, err)
		}
		cfg.ListenPort = portNum
	}

	logger := zlog.New(zlog.Options{
		FilePath:   cfg.LogFilePath,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
	})
	defer logger.Sync()

	addr := fmt.Sprintf("%s:%d", cfg.ListenAddress, cfg.ListenPort)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	defer ln.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("zhttpd listening", zap.String("addr", addr), zap.String("webroot", cfg.Webroot))

	e := engine.New(cfg, logger, mimedetect.Detect)
	return supervisor.Serve(ctx, ln, cfg.MaxConnections, logger, e)
}
