package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/DetetiveH/SISTEMA-EDUCACIONAL-PROT-TIPO-V5.0/internal/transport"
)

// TransportOptions maps the network keys of cfg onto client options.
func TransportOptions(cfg ClientConfig) transport.Options {
	return transport.Options{
		Addr:          cfg.ServerAddr,
		DialTimeout:   cfg.DialTimeout,
		WriteTimeout:  cfg.WriteTimeout,
		ReadTimeout:   cfg.ReadTimeout,
		MaxReplyBytes: cfg.MaxReplyBytes,
	}
}

func parseDuration(key, raw string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}
