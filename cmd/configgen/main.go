package main

import (
	"flag"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/config"
	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/logging"
	"github.com/rs/zerolog/log"
)

const defaultPath = "cmd/conectapro/config.toml"

func main() {
	output := flag.String("output", defaultPath, "output path for config template")
	validate := flag.Bool("validate", false, "validate an existing config file")
	input := flag.String("input", defaultPath, "config path for validation")
	force := flag.Bool("force", false, "overwrite existing config file")
	flag.Parse()

	logging.ConfigureRuntime()

	if *validate {
		cfg, err := config.Load(*input)
		if err != nil {
			log.Fatal().Err(err).Str("path", *input).Msg("invalid config")
		}
		log.Info().
			Str("path", *input).
			Str("server_addr", cfg.ServerAddr).
			Str("accounts_file", cfg.AccountsFile).
			Msg("config valid")
		return
	}

	if err := config.WriteTemplate(*output, *force); err != nil {
		log.Fatal().Err(err).Msg("write template")
	}
	log.Info().Str("path", *output).Msg("wrote config template")
}
