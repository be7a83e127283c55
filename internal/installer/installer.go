package installer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"venvctl/internal/env"
	"venvctl/internal/manifest"
	"venvctl/internal/runner"
)

var (
	// ErrNetwork indicates the package index was unreachable.
	ErrNetwork = errors.New("package index unreachable")

	// ErrResolution indicates the declared constraints are unsatisfiable.
	ErrResolution = errors.New("dependency resolution failed")

	// ErrInstall indicates the install phase failed for any other reason.
	ErrInstall = errors.New("dependency installation failed")
)

// Result describes one completed pip invocation.
type Result struct {
	Entries  int
	Stdout   string
	Stderr   string
	ExitCode int
	Duration time.Duration
}

// Installer feeds the manifest to the environment's own pip in a single
// invocation. pip resolves transitive requirements and owns whatever retry
// policy applies; nothing is retried here.
type Installer struct {
	Runner runner.Runner
}

func (i *Installer) runner() runner.Runner {
	if i.Runner != nil {
		return i.Runner
	}
	return runner.LocalRunner{}
}

// InstallAll validates the manifest and installs every declared dependency
// into e. The manifest check happens first: a missing or malformed file never
// reaches pip.
func (i *Installer) InstallAll(e *env.Environment, vars env.EnvVars, manifestPath string) (*Result, error) {
	r := i.runner()

	m, err := manifest.Load(r, manifestPath)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("manifest", manifestPath).Int("entries", len(m.Entries)).Msg("installing dependencies")

	start := time.Now()
	stdout, stderr, code, runErr := r.Run(vars.Environ(), e.Python(), "-m", "pip", "install", "-r", manifestPath)
	result := &Result{
		Entries:  len(m.Entries),
		Stdout:   string(stdout),
		Stderr:   string(stderr),
		ExitCode: code,
		Duration: time.Since(start),
	}

	if runErr != nil || code != 0 {
		return result, classify(result.Stderr, runErr)
	}

	log.Info().
		Int("entries", result.Entries).
		Dur("duration", result.Duration).
		Msg("dependencies installed")
	return result, nil
}

// classify maps pip's stderr onto the error taxonomy. pip does not expose
// machine-readable failure kinds, so this matches its stable message markers.
func classify(stderr string, runErr error) error {
	cause := runner.CauseLine([]byte(stderr), runErr)

	// ResolutionImpossible is definitive. The "no version" markers are not:
	// pip also prints them when the index never answered, so the network
	// markers are checked ahead of them.
	if strings.Contains(stderr, "ResolutionImpossible") {
		return fmt.Errorf("%w: %s", ErrResolution, cause)
	}

	for _, marker := range []string{
		"Could not fetch URL",
		"NewConnectionError",
		"Temporary failure in name resolution",
		"ReadTimeoutError",
		"ProxyError",
		"Network is unreachable",
	} {
		if strings.Contains(stderr, marker) {
			return fmt.Errorf("%w: %s", ErrNetwork, cause)
		}
	}

	for _, marker := range []string{
		"Could not find a version that satisfies",
		"No matching distribution found",
		"Cannot install",
	} {
		if strings.Contains(stderr, marker) {
			return fmt.Errorf("%w: %s", ErrResolution, cause)
		}
	}

	return fmt.Errorf("%w: %s", ErrInstall, cause)
}
