package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"trialheader/internal/app"
	"trialheader/internal/config"
	"trialheader/internal/header"
	"trialheader/internal/logging"
	"trialheader/internal/session"
)

type UICommand struct {
	stderr     io.Writer
	loadConfig func() (config.Config, error)
	runUI      uiRunner
	openUILog  func(level string) (logging.Logger, io.Closer, error)
}

func NewUICommand(stderr io.Writer, loadConfig func() (config.Config, error), runUI uiRunner, openUILog func(level string) (logging.Logger, io.Closer, error)) *UICommand {
	return &UICommand{
		stderr:     stderr,
		loadConfig: loadConfig,
		runUI:      runUI,
		openUILog:  openUILog,
	}
}

func (c *UICommand) Run(args []string) error {
	fs := flag.NewFlagSet("ui", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	trials := fs.Int("trials", 0, "total trials N (default from config)")
	participant := fs.String("participant", "", "participant id (random when empty)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Nop()
	if c.openUILog != nil {
		fileLogger, closer, err := c.openUILog(cfg.LogLevel())
		if err != nil {
			fmt.Fprintf(c.stderr, "ui log unavailable: %v\n", err)
		} else {
			defer closer.Close()
			logger = fileLogger
		}
	}
	for _, warning := range cfg.Validate() {
		logger.Warn("config warning", logging.F("detail", warning))
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	n := cfg.Trials()
	if set["trials"] {
		n = *trials
	}
	id := *participant
	if id == "" {
		if id, err = session.GenerateID(cfg.ParticipantIDLength()); err != nil {
			return fmt.Errorf("generate participant id: %w", err)
		}
	}
	store := session.New(session.WithLogger(logger), session.WithParticipantID(id))
	defer store.Close()
	if err := store.Start(n, cfg.StartNotStarted()); err != nil {
		return err
	}
	logger.Info("preview started", logging.F("participant", id), logging.F("n", n))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return c.runUI(ctx, store, app.Options{
		Template: cfg.Template(),
		Header: header.Options{
			Width:               cfg.Width(),
			Dark:                cfg.Dark(),
			ParticipantID:       id,
			TrainingTitle:       cfg.TrainingTitle(),
			TestingTitle:        cfg.TestingTitle(),
			TrainingDescription: cfg.TrainingDescription(),
			TestingDescription:  cfg.TestingDescription(),
		},
	}, logger)
}
