package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/linewire/linechat-server/internal/app"
	"github.com/linewire/linechat-server/internal/config"
	"github.com/linewire/linechat-server/internal/log"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file")
		tcpAddr    = flag.String("tcp-addr", "", "override TCP listen address")
		httpAddr   = flag.String("http-addr", "", "override HTTP listen address")
	)
	flag.Parse()

	bootLogger := log.New("info", "")
	cfg, path, err := config.Load(bootLogger, *configPath)
	if err != nil {
		bootLogger.Fatal().Err(err).Msg("failed to load config")
	}
	if *tcpAddr != "" {
		cfg.TCPAddr = *tcpAddr
	}
	if *httpAddr != "" {
		cfg.HTTPAddr = *httpAddr
	}

	logger := log.New(cfg.LogLevel, cfg.LogFile)
	logger.Info().
		Str("config", path).
		Str("tcp_addr", cfg.TCPAddr).
		Str("http_addr", cfg.HTTPAddr).
		Msg("starting linechat server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize application")
	}

	if err := application.Run(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server exited with error")
	}
	logger.Info().Msg("server stopped")
}
