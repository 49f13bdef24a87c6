// Package testlog sets up quiet, test-tagged logging for package tests.
package testlog

import (
	"testing"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/logging"
	"github.com/rs/zerolog/log"
)

// Start applies the test logging profile and tags every line written while
// t runs with the test name. The previous global logger is restored on
// cleanup.
func Start(t *testing.T) {
	t.Helper()
	logging.ConfigureTests()
	prev := log.Logger
	log.Logger = log.Logger.With().Str("test", t.Name()).Logger()
	t.Cleanup(func() { log.Logger = prev })
	log.Debug().Msg("test start")
}
