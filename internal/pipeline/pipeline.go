package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"venvctl/internal/env"
	"venvctl/internal/installer"
	"venvctl/internal/runner"
)

// Config carries the two paths the bootstrap operates on. Both default to the
// fixed values the tool has always used.
type Config struct {
	EnvironmentPath string
	ManifestPath    string
	Interpreter     string
}

// DefaultConfig returns the compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		EnvironmentPath: "venv",
		ManifestPath:    "requirements.txt",
		Interpreter:     env.DefaultInterpreter,
	}
}

// Summary is the observable outcome of one pipeline run.
type Summary struct {
	RunID       string
	State       State
	FailedStep  Step
	Environment *env.Environment
	Activation  env.EnvVars
	Install     *installer.Result
	Reentry     string
}

// Pipeline runs the bootstrap sequence: provision, activate, install, report.
// Strictly sequential and fail-fast; the first failing step aborts the rest
// and earlier steps are never rolled back.
type Pipeline struct {
	Config   Config
	Runner   runner.Runner
	Reporter *Reporter

	state State
}

// New builds a pipeline over the given runner. A nil runner means local
// execution.
func New(cfg Config, r runner.Runner, reporter *Reporter) *Pipeline {
	if cfg.EnvironmentPath == "" {
		cfg.EnvironmentPath = DefaultConfig().EnvironmentPath
	}
	if cfg.ManifestPath == "" {
		cfg.ManifestPath = DefaultConfig().ManifestPath
	}
	if reporter == nil {
		reporter = &Reporter{}
	}
	return &Pipeline{
		Config:   cfg,
		Runner:   r,
		Reporter: reporter,
		state:    StateNotStarted,
	}
}

// State returns the pipeline's current lifecycle position.
func (p *Pipeline) State() State {
	return p.state
}

// Run drives the full sequence and returns a summary either way. The returned
// error, when non-nil, belongs to Summary.FailedStep.
func (p *Pipeline) Run() (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString()}
	logger := log.With().Str("run_id", summary.RunID).Logger()

	fail := func(step Step, err error) (*Summary, error) {
		p.state, _ = transition(p.state, StateFailed)
		summary.State = p.state
		summary.FailedStep = step
		p.Reporter.Failed(step, err)
		logger.Error().Err(err).Str("step", string(step)).Msg("bootstrap failed")
		return summary, fmt.Errorf("%s: %w", step, err)
	}

	// Provision.
	if err := p.advance(StateProvisioning); err != nil {
		return fail(StepProvision, err)
	}
	p.Reporter.Starting(StepProvision)
	provisioner := &env.Provisioner{Runner: p.Runner, Interpreter: p.Config.Interpreter}
	environment, err := provisioner.Ensure(p.Config.EnvironmentPath)
	if err != nil {
		return fail(StepProvision, err)
	}
	summary.Environment = environment
	p.Reporter.Completed(StepProvision)

	// Activate.
	if err := p.advance(StateActivating); err != nil {
		return fail(StepActivate, err)
	}
	p.Reporter.Starting(StepActivate)
	activator := &env.Activator{Runner: p.Runner}
	vars, err := activator.ActivationState(environment)
	if err != nil {
		return fail(StepActivate, err)
	}
	summary.Activation = vars
	p.Reporter.Completed(StepActivate)

	// Install.
	if err := p.advance(StateInstalling); err != nil {
		return fail(StepInstall, err)
	}
	p.Reporter.Starting(StepInstall)
	inst := &installer.Installer{Runner: p.Runner}
	result, err := inst.InstallAll(environment, vars, p.Config.ManifestPath)
	summary.Install = result
	if err != nil {
		return fail(StepInstall, err)
	}
	p.Reporter.Completed(StepInstall)

	if err := p.advance(StateDone); err != nil {
		return fail(StepInstall, err)
	}
	summary.State = p.state
	summary.Reentry = env.ReentryCommand(environment)
	p.Reporter.Reentry(summary.Reentry)
	logger.Info().Str("environment", environment.Path).Msg("bootstrap complete")
	return summary, nil
}

func (p *Pipeline) advance(next State) error {
	state, err := transition(p.state, next)
	if err != nil {
		return err
	}
	p.state = state
	return nil
}
