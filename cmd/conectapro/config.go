package main

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/config"
	"github.com/rs/zerolog/log"
)

// loadConfig reads path, writing the default template first when the file
// does not exist yet.
func loadConfig(path string) (config.ClientConfig, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return config.ClientConfig{}, err
		}
		if err := config.WriteTemplate(path, false); err != nil {
			return config.ClientConfig{}, err
		}
		log.Info().Str("path", path).Msg("wrote default config")
	} else if err != nil {
		return config.ClientConfig{}, err
	}
	return config.Load(path)
}
