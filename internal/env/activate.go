package env

import (
	"fmt"
	"os"

	"venvctl/internal/runner"
)

// EnvVars is the activation state for an environment: the variable overrides
// a caller must apply so that the environment's executables resolve ahead of
// system-wide ones. It is an explicit value, never applied to this process;
// it does not persist past the current process tree.
type EnvVars struct {
	Path       string // replacement PATH value
	VirtualEnv string // VIRTUAL_ENV value
}

// Environ renders the overrides in KEY=VALUE form for child processes.
// PYTHONHOME is cleared so the venv interpreter is not redirected.
func (v EnvVars) Environ() []string {
	return []string{
		"PATH=" + v.Path,
		"VIRTUAL_ENV=" + v.VirtualEnv,
		"PYTHONHOME=",
	}
}

// Activator computes activation state for a provisioned environment. It never
// mutates the calling process's environment.
type Activator struct {
	Runner runner.Runner

	// BasePath overrides the inherited PATH value; tests use it to stay pure.
	BasePath string
}

func (a *Activator) runner() runner.Runner {
	if a.Runner != nil {
		return a.Runner
	}
	return runner.LocalRunner{}
}

func (a *Activator) basePath() string {
	if a.BasePath != "" {
		return a.BasePath
	}
	return os.Getenv("PATH")
}

// ActivationState returns the variable overrides for e. The only failure mode
// is a missing environment, reported as ErrNotFound.
func (a *Activator) ActivationState(e *Environment) (EnvVars, error) {
	exists, err := a.runner().PathExists(e.Path)
	if err != nil {
		return EnvVars{}, fmt.Errorf("%w: probe %s: %v", ErrNotFound, e.Path, err)
	}
	if !exists {
		return EnvVars{}, fmt.Errorf("%w: %s", ErrNotFound, e.Path)
	}

	path := e.BinDir()
	if base := a.basePath(); base != "" {
		path += string(os.PathListSeparator) + base
	}
	return EnvVars{
		Path:       path,
		VirtualEnv: e.Path,
	}, nil
}

// ReentryCommand returns the shell command that reproduces the activation
// state in a future session.
func ReentryCommand(e *Environment) string {
	return "source " + e.ActivateScript()
}
