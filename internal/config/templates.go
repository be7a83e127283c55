package config

import (
	"fmt"
	"os"
)

const configTemplate = `# venvctl configuration. Every key is optional; the
# defaults reproduce the tool's original fixed-path behavior.

# Where to create/find the environment.
environment_path = "venv"

# Where to read dependency declarations.
manifest_path = "requirements.txt"

# Interpreter used to create the environment.
interpreter = "python3"

# Uncomment to bootstrap a remote development host over SSH instead.
# [remote]
# host = "dev.example.net"
# user = "dev"
# key_path = "~/.ssh/id_ed25519"
# timeout = "10s"
`

// Template returns the annotated default config file text.
func Template() string {
	return configTemplate
}

// WriteTemplate writes the template to path, refusing to clobber an existing
// file unless overwrite is set.
func WriteTemplate(path string, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config already exists: %s", path)
		}
	}
	return os.WriteFile(path, []byte(configTemplate), 0o600)
}
