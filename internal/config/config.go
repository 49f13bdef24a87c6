package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultAccountsFile  = "usuarios.csv"
	DefaultMaxReplyBytes = 64 * 1024
	DefaultWorkerQueue   = 8
)

// ClientConfig is the resolved runtime configuration of the client.
type ClientConfig struct {
	ServerAddr    string
	DialTimeout   time.Duration
	WriteTimeout  time.Duration
	ReadTimeout   time.Duration
	MaxReplyBytes int
	AccountsFile  string
	WorkerQueue   int
	ClearScreen   bool
	MetricsAddr   string
	LogLevel      string
}

// fileConfig mirrors the TOML keys of the client config file.
type fileConfig struct {
	ServerAddr    string `toml:"server_addr"`
	DialTimeout   string `toml:"dial_timeout"`
	WriteTimeout  string `toml:"write_timeout"`
	ReadTimeout   string `toml:"read_timeout"`
	MaxReplyBytes int    `toml:"max_reply_bytes"`
	AccountsFile  string `toml:"accounts_file"`
	WorkerQueue   int    `toml:"worker_queue"`
	ClearScreen   bool   `toml:"clear_screen"`
	MetricsAddr   string `toml:"metrics_addr"`
	LogLevel      string `toml:"log_level"`
}

func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		ServerAddr:    DefaultServerAddr,
		DialTimeout:   5 * time.Second,
		WriteTimeout:  5 * time.Second,
		ReadTimeout:   15 * time.Second,
		MaxReplyBytes: DefaultMaxReplyBytes,
		AccountsFile:  DefaultAccountsFile,
		WorkerQueue:   DefaultWorkerQueue,
	}
}

// Load decodes path and overlays the keys it defines on the defaults.
func Load(path string) (ClientConfig, error) {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config (%s): %w", path, err)
	}
	cfg, err := overlay(DefaultClientConfig(), raw, meta)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("load client config (%s): %w", path, err)
	}
	if err := Validate(cfg); err != nil {
		return ClientConfig{}, fmt.Errorf("load client config (%s): %w", path, err)
	}
	return cfg, nil
}

// Parse is Load for in-memory TOML.
func Parse(data string) (ClientConfig, error) {
	var raw fileConfig
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return ClientConfig{}, fmt.Errorf("parse client config: %w", err)
	}
	cfg, err := overlay(DefaultClientConfig(), raw, meta)
	if err != nil {
		return ClientConfig{}, err
	}
	if err := Validate(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func overlay(cfg ClientConfig, raw fileConfig, meta toml.MetaData) (ClientConfig, error) {
	if meta.IsDefined("server_addr") {
		cfg.ServerAddr = strings.TrimSpace(raw.ServerAddr)
	}
	if meta.IsDefined("dial_timeout") {
		d, err := parseDuration("dial_timeout", raw.DialTimeout)
		if err != nil {
			return ClientConfig{}, err
		}
		cfg.DialTimeout = d
	}
	if meta.IsDefined("write_timeout") {
		d, err := parseDuration("write_timeout", raw.WriteTimeout)
		if err != nil {
			return ClientConfig{}, err
		}
		cfg.WriteTimeout = d
	}
	if meta.IsDefined("read_timeout") {
		d, err := parseDuration("read_timeout", raw.ReadTimeout)
		if err != nil {
			return ClientConfig{}, err
		}
		cfg.ReadTimeout = d
	}
	if meta.IsDefined("max_reply_bytes") {
		cfg.MaxReplyBytes = raw.MaxReplyBytes
	}
	if meta.IsDefined("accounts_file") {
		cfg.AccountsFile = strings.TrimSpace(raw.AccountsFile)
	}
	if meta.IsDefined("worker_queue") {
		cfg.WorkerQueue = raw.WorkerQueue
	}
	if meta.IsDefined("clear_screen") {
		cfg.ClearScreen = raw.ClearScreen
	}
	if meta.IsDefined("metrics_addr") {
		cfg.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	return cfg, nil
}

func Validate(cfg ClientConfig) error {
	addr := strings.TrimSpace(cfg.ServerAddr)
	if addr == "" {
		return fmt.Errorf("client config missing server_addr")
	}
	host, port, err := net.SplitHostPort(addr)
	if err != nil || strings.TrimSpace(port) == "" {
		return fmt.Errorf("client config invalid server_addr %q", addr)
	}
	if strings.TrimSpace(host) == "" {
		return fmt.Errorf("client config server_addr %q needs a host", addr)
	}
	if cfg.DialTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.ReadTimeout <= 0 {
		return fmt.Errorf("client config timeouts must be positive")
	}
	if cfg.MaxReplyBytes <= 0 {
		return fmt.Errorf("client config max_reply_bytes must be positive")
	}
	if strings.TrimSpace(cfg.AccountsFile) == "" {
		return fmt.Errorf("client config missing accounts_file")
	}
	if cfg.WorkerQueue <= 0 {
		return fmt.Errorf("client config worker_queue must be positive")
	}
	return nil
}
