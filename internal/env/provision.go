package env

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"venvctl/internal/runner"
)

const DefaultInterpreter = "python3"

// Provisioner creates the environment when it is absent and leaves an existing
// one untouched. Ensure is safe to run any number of times.
type Provisioner struct {
	Runner      runner.Runner
	Interpreter string
}

func (p *Provisioner) interpreter() string {
	if p.Interpreter != "" {
		return p.Interpreter
	}
	return DefaultInterpreter
}

func (p *Provisioner) runner() runner.Runner {
	if p.Runner != nil {
		return p.Runner
	}
	return runner.LocalRunner{}
}

// Ensure provisions an environment at path if one does not already exist.
// A pre-existing valid environment is returned as-is; a directory that is not
// a venv yields ErrCorruptEnvironment rather than being overwritten.
//
// The path is resolved through the runner first, so the returned Environment
// stays valid for child processes with a different working directory.
func (p *Provisioner) Ensure(path string) (*Environment, error) {
	r := p.runner()

	path, err := r.AbsPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: resolve %s: %v", ErrProvision, path, err)
	}
	environment := &Environment{Path: path}

	exists, err := r.PathExists(path)
	if err != nil {
		return nil, fmt.Errorf("%w: probe %s: %v", ErrProvision, path, err)
	}
	if exists {
		if err := p.validate(environment); err != nil {
			return nil, err
		}
		log.Debug().Str("path", path).Msg("environment already provisioned")
		return environment, nil
	}

	bin, err := r.LookPath(p.interpreter())
	if err != nil {
		return nil, fmt.Errorf("%w: %s not on PATH", ErrToolchain, p.interpreter())
	}
	log.Debug().Str("interpreter", bin).Str("path", path).Msg("creating environment")

	_, stderr, code, err := r.Run(nil, bin, "-m", "venv", path)
	if err != nil {
		cause := runner.CauseLine(stderr, err)
		if code == 127 {
			return nil, fmt.Errorf("%w: %s", ErrToolchain, cause)
		}
		if strings.Contains(string(stderr), "Permission denied") ||
			strings.Contains(string(stderr), "Errno 13") {
			return nil, fmt.Errorf("%w: %s", ErrPermission, cause)
		}
		return nil, fmt.Errorf("%w: %s", ErrProvision, cause)
	}

	if err := p.validate(environment); err != nil {
		return nil, err
	}
	return environment, nil
}

// validate checks the integrity signals of an environment directory.
func (p *Provisioner) validate(e *Environment) error {
	r := p.runner()
	for _, required := range []string{e.MarkerFile(), e.Python()} {
		ok, err := r.PathExists(required)
		if err != nil {
			return fmt.Errorf("%w: probe %s: %v", ErrProvision, required, err)
		}
		if !ok {
			return fmt.Errorf("%w: missing %s", ErrCorruptEnvironment, required)
		}
	}
	return nil
}
