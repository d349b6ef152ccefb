package main

import (
	"context"
	"io"
	"os"

	"trialheader/internal/app"
	"trialheader/internal/config"
	"trialheader/internal/logging"
)

type commandRunner interface {
	Run(args []string) error
}

type uiRunner func(ctx context.Context, store app.SessionStore, opts app.Options, logger logging.Logger) error

type commandWiring struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	runUI      uiRunner
	openUILog  func(level string) (logging.Logger, io.Closer, error)
}

func defaultCommandWiring(stdout, stderr io.Writer) commandWiring {
	if stdout == nil {
		stdout = os.Stdout
	}
	if stderr == nil {
		stderr = os.Stderr
	}
	return commandWiring{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: config.Load,
		runUI:      app.Run,
		openUILog:  openUILog,
	}
}

func buildCommands(wiring commandWiring) map[string]commandRunner {
	return map[string]commandRunner{
		"header": NewHeaderCommand(wiring.stdout, wiring.stderr, wiring.loadConfig),
		"config": NewConfigCommand(wiring.stdout, wiring.stderr, wiring.loadConfig),
		"ui":     NewUICommand(wiring.stderr, wiring.loadConfig, wiring.runUI, wiring.openUILog),
	}
}
