package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/janhq/dm-server/pkg/dmclient"
)

const (
	defaultServer   = "http://localhost:8090"
	defaultTimeout  = 10 * time.Second
	configFileName  = ".dmctl.yaml"
	configFilePerms = 0o600
)

// cliConfig is the persisted CLI state.
type cliConfig struct {
	Server       string `yaml:"server"`
	SessionToken string `yaml:"session_token,omitempty"`
}

func configPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("config"); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("locate home directory: %w", err)
	}
	return filepath.Join(home, configFileName), nil
}

// loadConfig reads path. A missing file yields the defaults.
func loadConfig(path string) (*cliConfig, error) {
	cfg := &cliConfig{Server: defaultServer}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Server == "" {
		cfg.Server = defaultServer
	}
	return cfg, nil
}

func saveConfig(path string, cfg *cliConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(path, data, configFilePerms); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// session bundles the loaded config with a ready client.
type session struct {
	path   string
	cfg    *cliConfig
	client *dmclient.Client
	log    zerolog.Logger
}

func openSession(cmd *cobra.Command) (*session, error) {
	path, err := configPath(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig(path)
	if err != nil {
		return nil, err
	}
	if server, _ := cmd.Flags().GetString("server"); server != "" {
		cfg.Server = server
	}

	log := zerolog.Nop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")

	client, err := dmclient.New(cfg.Server,
		dmclient.WithTimeout(timeout),
		dmclient.WithLogger(log),
		dmclient.WithSessionToken(cfg.SessionToken),
	)
	if err != nil {
		return nil, err
	}
	return &session{path: path, cfg: cfg, client: client, log: log}, nil
}

// persist stores the client's current session token.
func (s *session) persist() error {
	s.cfg.SessionToken = s.client.SessionToken()
	return saveConfig(s.path, s.cfg)
}

func (s *session) close() {
	_ = s.client.Close()
}
