package main

import (
	"bufio"
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/academic"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/accounts"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/auth"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/config"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/logging"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/observability"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/transport"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const defaultConfigPath = "cmd/conectapro/config.toml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "client config file")
	flag.Parse()

	logging.ConfigureRuntime()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("conectapro: config")
	}
	if level, ok := logging.ParseLevel(cfg.LogLevel); ok && os.Getenv(logging.EnvLogLevel) == "" {
		zerolog.SetGlobalLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	observability.RegisterMetrics()
	go func() {
		if err := observability.ServeDiagnostics(ctx, cfg.MetricsAddr); err != nil {
			log.Error().Err(err).Msg("diagnostics endpoint stopped")
		}
	}()

	client := transport.NewClient(config.TransportOptions(cfg))
	worker := transport.NewWorker(client, cfg.WorkerQueue)
	worker.Start(ctx)
	defer worker.Stop()

	store := accounts.NewStore(cfg.AccountsFile)
	records := academic.New(worker)
	app := NewApp(ctx, bufio.NewReader(os.Stdin), os.Stdout, Deps{
		Records:    records,
		Auth:       auth.NewAuthenticator(store, records),
		Store:      store,
		ServerAddr: client.Addr(),
	})
	app.clearScreen = cfg.ClearScreen

	log.Info().
		Str("server", cfg.ServerAddr).
		Str("accounts", cfg.AccountsFile).
		Msg("conectapro started")
	if err := app.Run(); err != nil {
		log.Error().Err(err).Msg("conectapro")
		worker.Stop()
		os.Exit(1)
	}
}
