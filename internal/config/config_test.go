package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"venvctl/internal/testutil/testlog"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "venvctl.toml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	testlog.Start(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Pipeline.EnvironmentPath != "venv" {
		t.Fatalf("unexpected environment path: %q", cfg.Pipeline.EnvironmentPath)
	}
	if cfg.Pipeline.ManifestPath != "requirements.txt" {
		t.Fatalf("unexpected manifest path: %q", cfg.Pipeline.ManifestPath)
	}
	if cfg.Pipeline.Interpreter != "python3" {
		t.Fatalf("unexpected interpreter: %q", cfg.Pipeline.Interpreter)
	}
	if cfg.Remote.Host != "" {
		t.Fatalf("unexpected remote host: %q", cfg.Remote.Host)
	}
}

func TestLoadPartialOverrides(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
environment_path = ".venv"
interpreter = "python3.12"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Pipeline.EnvironmentPath != ".venv" {
		t.Fatalf("override not applied: %q", cfg.Pipeline.EnvironmentPath)
	}
	if cfg.Pipeline.ManifestPath != "requirements.txt" {
		t.Fatalf("default lost: %q", cfg.Pipeline.ManifestPath)
	}
	if cfg.Pipeline.Interpreter != "python3.12" {
		t.Fatalf("interpreter override not applied: %q", cfg.Pipeline.Interpreter)
	}
}

func TestLoadRemoteSection(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[remote]
host = "dev.example.net"
user = "dev"
key_path = "/home/dev/.ssh/id_ed25519"
timeout = "10s"
insecure = true
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Remote.Host != "dev.example.net" || cfg.Remote.User != "dev" {
		t.Fatalf("remote section not applied: %+v", cfg.Remote)
	}
	if cfg.Remote.Timeout != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.Remote.Timeout)
	}
	if !cfg.Remote.Insecure {
		t.Fatalf("expected insecure enabled")
	}
}

func TestLoadRemoteMissingUserRejected(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[remote]
host = "dev.example.net"
key_path = "/home/dev/.ssh/id_ed25519"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "missing user") {
		t.Fatalf("expected missing user error, got %v", err)
	}
}

func TestLoadBadTimeoutRejected(t *testing.T) {
	testlog.Start(t)
	path := writeConfig(t, `
[remote]
host = "dev.example.net"
user = "dev"
key_path = "/k"
timeout = "soon"
`)

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "timeout") {
		t.Fatalf("expected timeout parse error, got %v", err)
	}
}

func TestTemplateRoundTripMatchesDefaults(t *testing.T) {
	testlog.Start(t)
	path := filepath.Join(t.TempDir(), "venvctl.toml")
	if err := WriteTemplate(path, false); err != nil {
		t.Fatalf("write template: %v", err)
	}
	if err := WriteTemplate(path, false); err == nil {
		t.Fatalf("expected refusal to overwrite existing config")
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if cfg.Pipeline != Default().Pipeline {
		t.Fatalf("template diverges from defaults: %+v", cfg.Pipeline)
	}
}
