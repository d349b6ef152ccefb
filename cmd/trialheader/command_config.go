package main

import (
	"flag"
	"io"

	"trialheader/internal/config"
)

type ConfigCommand struct {
	stdout     io.Writer
	stderr     io.Writer
	loadConfig func() (config.Config, error)
}

type configOutput struct {
	ConfigPath string                 `json:"config_path,omitempty" toml:"config_path,omitempty"`
	Experiment effectiveExperiment    `json:"experiment" toml:"experiment"`
	Logging    effectiveLoggingConfig `json:"logging" toml:"logging"`
	UI         effectiveUIConfig      `json:"ui" toml:"ui"`
	Phases     effectivePhases        `json:"phases" toml:"phases"`
	Warnings   []string               `json:"warnings,omitempty" toml:"warnings,omitempty"`
}

type effectiveExperiment struct {
	Trials              int  `json:"trials" toml:"trials"`
	StartNotStarted     bool `json:"start_not_started" toml:"start_not_started"`
	ParticipantIDLength int  `json:"participant_id_length" toml:"participant_id_length"`
}

type effectiveLoggingConfig struct {
	Level string `json:"level" toml:"level"`
}

type effectiveUIConfig struct {
	Width    int    `json:"width" toml:"width"`
	Template string `json:"template" toml:"template"`
	Dark     bool   `json:"dark" toml:"dark"`
}

type effectivePhases struct {
	Training effectivePhase `json:"training" toml:"training"`
	Testing  effectivePhase `json:"testing" toml:"testing"`
}

type effectivePhase struct {
	Title       string `json:"title" toml:"title"`
	Description string `json:"description,omitempty" toml:"description,omitempty"`
}

func NewConfigCommand(stdout, stderr io.Writer, loadConfig func() (config.Config, error)) *ConfigCommand {
	return &ConfigCommand{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: loadConfig,
	}
}

func (c *ConfigCommand) Run(args []string) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	defaults := fs.Bool("default", false, "print default config values")
	format := fs.String("format", formatJSON, "output format: json|toml")
	if err := fs.Parse(args); err != nil {
		return err
	}
	resolvedFormat, err := resolveFormat(*format, formatJSON, formatTOML)
	if err != nil {
		return err
	}

	var cfg config.Config
	out := configOutput{}
	if *defaults {
		cfg = config.Default()
	} else {
		cfg, err = c.loadConfig()
		if err != nil {
			return err
		}
		if path, err := config.ConfigPath(); err == nil {
			out.ConfigPath = path
		}
		out.Warnings = cfg.Validate()
	}
	out.Experiment = effectiveExperiment{
		Trials:              cfg.Trials(),
		StartNotStarted:     cfg.StartNotStarted(),
		ParticipantIDLength: cfg.ParticipantIDLength(),
	}
	out.Logging = effectiveLoggingConfig{Level: cfg.LogLevel()}
	out.UI = effectiveUIConfig{
		Width:    cfg.Width(),
		Template: cfg.Template(),
		Dark:     cfg.Dark(),
	}
	out.Phases = effectivePhases{
		Training: effectivePhase{Title: cfg.TrainingTitle(), Description: cfg.TrainingDescription()},
		Testing:  effectivePhase{Title: cfg.TestingTitle(), Description: cfg.TestingDescription()},
	}
	return writeStructured(c.stdout, resolvedFormat, out)
}
