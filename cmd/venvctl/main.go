package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"venvctl/internal/config"
	"venvctl/internal/logging"
	"venvctl/internal/pipeline"
	"venvctl/internal/runner"
)

func main() {
	logging.ConfigureRuntime("venvctl")

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	p := pipeline.New(cfg.Pipeline, buildRunner(cfg.Remote), &pipeline.Reporter{Out: os.Stdout})
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "venvctl: %v\n", err)
		os.Exit(1)
	}
}

func buildRunner(remote config.Remote) runner.Runner {
	if remote.Host == "" {
		return runner.LocalRunner{}
	}
	log.Info().Str("host", remote.Host).Msg("bootstrapping remote host")
	return runner.SSHRunner{
		Host:                        remote.Host,
		Port:                        remote.Port,
		User:                        remote.User,
		KeyPath:                     remote.KeyPath,
		KnownHostsPath:              remote.KnownHostsPath,
		InsecureSkipHostKeyChecking: remote.Insecure,
		Timeout:                     remote.Timeout,
	}
}
