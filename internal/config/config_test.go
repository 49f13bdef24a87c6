package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestTemplateParsesToDefaults(t *testing.T) {
	cfg, err := Parse(Template())
	if err != nil {
		t.Fatalf("parse template: %v", err)
	}
	def := DefaultClientConfig()
	if cfg.ServerAddr != def.ServerAddr {
		t.Fatalf("unexpected server addr: %q", cfg.ServerAddr)
	}
	if cfg.ReadTimeout != 15*time.Second || cfg.DialTimeout != 5*time.Second {
		t.Fatalf("unexpected timeouts: dial=%v read=%v", cfg.DialTimeout, cfg.ReadTimeout)
	}
	if cfg.MaxReplyBytes != DefaultMaxReplyBytes {
		t.Fatalf("unexpected max reply bytes: %d", cfg.MaxReplyBytes)
	}
	if cfg.AccountsFile != DefaultAccountsFile {
		t.Fatalf("unexpected accounts file: %q", cfg.AccountsFile)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
}

func TestLoadOverlaysOnlyDefinedKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conectapro.toml")
	body := `server_addr = "10.0.0.5:9090"
read_timeout = "30s"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ServerAddr != "10.0.0.5:9090" {
		t.Fatalf("unexpected server addr: %q", cfg.ServerAddr)
	}
	if cfg.ReadTimeout != 30*time.Second {
		t.Fatalf("unexpected read timeout: %v", cfg.ReadTimeout)
	}
	if cfg.WriteTimeout != 5*time.Second {
		t.Fatalf("write timeout should keep default, got %v", cfg.WriteTimeout)
	}
	if cfg.WorkerQueue != DefaultWorkerQueue {
		t.Fatalf("worker queue should keep default, got %d", cfg.WorkerQueue)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "bad duration", body: `read_timeout = "soon"`, want: "read_timeout"},
		{name: "missing port", body: `server_addr = "127.0.0.1"`, want: "server_addr"},
		{name: "missing host", body: `server_addr = ":8080"`, want: "needs a host"},
		{name: "zero reply limit", body: `max_reply_bytes = 0`, want: "max_reply_bytes"},
		{name: "empty accounts file", body: `accounts_file = " "`, want: "accounts_file"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.body)
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q in error, got %v", tc.want, err)
			}
		})
	}
}

func TestWriteTemplateRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conectapro.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected overwrite refusal")
	}
	if err := WriteTemplate(path, true); err != nil {
		t.Fatalf("forced overwrite: %v", err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("load written template: %v", err)
	}
}

func TestTransportOptions(t *testing.T) {
	cfg := DefaultClientConfig()
	opts := TransportOptions(cfg)
	if opts.Addr != cfg.ServerAddr || opts.MaxReplyBytes != cfg.MaxReplyBytes || opts.ReadTimeout != cfg.ReadTimeout {
		t.Fatalf("options do not mirror config: %+v", opts)
	}
}
