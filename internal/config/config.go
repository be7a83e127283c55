package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"venvctl/internal/pipeline"
)

// DefaultPath is where the tool looks for its optional config file.
const DefaultPath = "venvctl.toml"

// Remote configures SSH bootstrap of a remote development host. Empty host
// means local execution.
type Remote struct {
	Host           string
	Port           string
	User           string
	KeyPath        string
	KnownHostsPath string
	Insecure       bool
	Timeout        time.Duration
}

// Config is the full tool configuration: the two bootstrap paths plus the
// interpreter override and the optional remote target.
type Config struct {
	Pipeline pipeline.Config
	Remote   Remote
}

type fileConfig struct {
	EnvironmentPath string `toml:"environment_path"`
	ManifestPath    string `toml:"manifest_path"`
	Interpreter     string `toml:"interpreter"`
	Remote          struct {
		Host           string `toml:"host"`
		Port           string `toml:"port"`
		User           string `toml:"user"`
		KeyPath        string `toml:"key_path"`
		KnownHostsPath string `toml:"known_hosts_path"`
		Insecure       bool   `toml:"insecure"`
		Timeout        string `toml:"timeout"`
	} `toml:"remote"`
}

// Default returns the compiled-in configuration: local execution against the
// fixed ./venv and ./requirements.txt paths.
func Default() Config {
	return Config{Pipeline: pipeline.DefaultConfig()}
}

// Load reads path and layers defined keys over the defaults. A missing file
// is not an error; the defaults keep behavioral compatibility with the
// original fixed-path tool.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	if meta.IsDefined("environment_path") {
		if v := strings.TrimSpace(raw.EnvironmentPath); v != "" {
			cfg.Pipeline.EnvironmentPath = v
		}
	}
	if meta.IsDefined("manifest_path") {
		if v := strings.TrimSpace(raw.ManifestPath); v != "" {
			cfg.Pipeline.ManifestPath = v
		}
	}
	if meta.IsDefined("interpreter") {
		if v := strings.TrimSpace(raw.Interpreter); v != "" {
			cfg.Pipeline.Interpreter = v
		}
	}

	if meta.IsDefined("remote", "host") {
		cfg.Remote.Host = strings.TrimSpace(raw.Remote.Host)
	}
	if meta.IsDefined("remote", "port") {
		cfg.Remote.Port = strings.TrimSpace(raw.Remote.Port)
	}
	if meta.IsDefined("remote", "user") {
		cfg.Remote.User = strings.TrimSpace(raw.Remote.User)
	}
	if meta.IsDefined("remote", "key_path") {
		cfg.Remote.KeyPath = strings.TrimSpace(raw.Remote.KeyPath)
	}
	if meta.IsDefined("remote", "known_hosts_path") {
		cfg.Remote.KnownHostsPath = strings.TrimSpace(raw.Remote.KnownHostsPath)
	}
	if meta.IsDefined("remote", "insecure") {
		cfg.Remote.Insecure = raw.Remote.Insecure
	}
	if meta.IsDefined("remote", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Remote.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse remote timeout: %w", err)
		}
		cfg.Remote.Timeout = d
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the pipeline cannot act on.
func Validate(cfg Config) error {
	if strings.TrimSpace(cfg.Pipeline.EnvironmentPath) == "" {
		return fmt.Errorf("config missing environment_path")
	}
	if strings.TrimSpace(cfg.Pipeline.ManifestPath) == "" {
		return fmt.Errorf("config missing manifest_path")
	}
	if cfg.Remote.Host != "" {
		if strings.TrimSpace(cfg.Remote.User) == "" {
			return fmt.Errorf("remote config missing user")
		}
		if strings.TrimSpace(cfg.Remote.KeyPath) == "" {
			return fmt.Errorf("remote config missing key_path")
		}
	}
	return nil
}
