package main

import (
	"flag"
	"fmt"
	"io"

	"charm.land/lipgloss/v2"

	"trialheader/internal/config"
	"trialheader/internal/header"
	"trialheader/internal/logging"
	"trialheader/internal/session"
)

type HeaderCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
}

type headerOutput struct {
	ParticipantID  string `json:"participant_id" toml:"participant_id"`
	Phase          string `json:"phase" toml:"phase"`
	IsTestingPhase bool   `json:"is_testing_phase" toml:"is_testing_phase"`
	ThisTrial      int    `json:"this_trial" toml:"this_trial"`
	NumTrials      int    `json:"num_trials" toml:"num_trials"`
	TrialsComplete int    `json:"trials_completed" toml:"trials_completed"`
	N              int    `json:"n" toml:"n"`
	Header         string `json:"header" toml:"header"`
}

func NewHeaderCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error)) *HeaderCommand {
	return &HeaderCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
	}
}

func (c *HeaderCommand) Run(args []string) error {
	fs := flag.NewFlagSet("header", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	completed := fs.Int("completed", 0, "trials completed (-1 = not started)")
	trials := fs.Int("trials", 0, "total trials N (default from config)")
	participant := fs.String("participant", "", "participant id (random when empty)")
	format := fs.String("format", formatText, "output format: text|styled|json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resolvedFormat, err := resolveFormat(*format, formatText, formatStyled, formatJSON, formatTOML)
	if err != nil {
		return err
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger := commandLogger(c.stderr, cfg)

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
	if set["completed"] {
		if err := store.Set(session.KeyTrialsCompleted, *completed); err != nil {
			return err
		}
	}

	view, err := header.Compute(store)
	if err != nil {
		return err
	}
	tmpl, err := header.ParseTemplate(cfg.Template(), store)
	if err != nil {
		return fmt.Errorf("parse header template: %w", err)
	}
	line, err := tmpl.Execute()
	if err != nil {
		return err
	}
	logger.Debug("header computed", logging.F("phase", string(view.Phase)), logging.F("this_trial", view.Trial), logging.F("num_trials", view.Total))

	switch resolvedFormat {
	case formatText:
		_, err = io.WriteString(c.stdout, header.Plain(view, line, store.ParticipantID()))
		return err
	case formatStyled:
		renderer := header.NewRenderer(header.Options{
			Width:               cfg.Width(),
			Dark:                cfg.Dark(),
			ParticipantID:       store.ParticipantID(),
			TrainingTitle:       cfg.TrainingTitle(),
			TestingTitle:        cfg.TestingTitle(),
			TrainingDescription: cfg.TrainingDescription(),
			TestingDescription:  cfg.TestingDescription(),
		})
		_, err = lipgloss.Fprintln(c.stdout, renderer.Render(view, line))
		return err
	default:
		return writeStructured(c.stdout, resolvedFormat, headerOutput{
			ParticipantID:  store.ParticipantID(),
			Phase:          string(view.Phase),
			IsTestingPhase: view.TestingPhase,
			ThisTrial:      view.Trial,
			NumTrials:      view.Total,
			TrialsComplete: view.Snapshot.TrialsCompleted,
			N:              view.Snapshot.N,
			Header:         line,
		})
	}
}
