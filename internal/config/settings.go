package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultTrials              = 10
	defaultParticipantIDLength = 6
	defaultWidth               = 60
	minWidth                   = 20
	defaultTemplate            = "Trial {{thisTrial}} of {{numTrials}}"
	defaultTrainingTitle       = "Training"
	defaultTestingTitle        = "Testing"
)

type Config struct {
	Experiment ExperimentConfig `toml:"experiment"`
	Logging    LoggingConfig    `toml:"logging"`
	UI         UIConfig         `toml:"ui"`
	Phases     PhasesConfig     `toml:"phases"`
}

type ExperimentConfig struct {
	Trials              *int  `toml:"trials"`
	StartNotStarted     *bool `toml:"start_not_started"`
	ParticipantIDLength int   `toml:"participant_id_length"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type UIConfig struct {
	Width    int    `toml:"width"`
	Template string `toml:"template"`
	Dark     *bool  `toml:"dark"`
}

type PhasesConfig struct {
	Training PhaseConfig `toml:"training"`
	Testing  PhaseConfig `toml:"testing"`
}

type PhaseConfig struct {
	Title       string `toml:"title"`
	Description string `toml:"description"`
}

func Default() Config {
	trials := defaultTrials
	notStarted := true
	dark := true
	return Config{
		Experiment: ExperimentConfig{
			Trials:              &trials,
			StartNotStarted:     &notStarted,
			ParticipantIDLength: defaultParticipantIDLength,
		},
		Logging: LoggingConfig{Level: "info"},
		UI: UIConfig{
			Width:    defaultWidth,
			Template: defaultTemplate,
			Dark:     &dark,
		},
		Phases: PhasesConfig{
			Training: PhaseConfig{
				Title:       defaultTrainingTitle,
				Description: "Learn the function from the feedback shown after each trial.",
			},
			Testing: PhaseConfig{
				Title:       defaultTestingTitle,
				Description: "Answer on your own. **No feedback** is shown.",
			},
		},
	}
}

// Load reads the config file over the defaults. A missing file is not an error.
func Load() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	return LoadFromPath(path)
}

func LoadFromPath(path string) (Config, error) {
	cfg := Default()
	if err := readTOML(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Trials() int {
	if c.Experiment.Trials == nil {
		return defaultTrials
	}
	if *c.Experiment.Trials < 0 {
		return 0
	}
	return *c.Experiment.Trials
}

func (c Config) StartNotStarted() bool {
	if c.Experiment.StartNotStarted == nil {
		return true
	}
	return *c.Experiment.StartNotStarted
}

func (c Config) ParticipantIDLength() int {
	if c.Experiment.ParticipantIDLength <= 0 {
		return defaultParticipantIDLength
	}
	return c.Experiment.ParticipantIDLength
}

func (c Config) LogLevel() string {
	level := strings.TrimSpace(c.Logging.Level)
	if level == "" {
		return "info"
	}
	return level
}

func (c Config) Width() int {
	switch {
	case c.UI.Width <= 0:
		return defaultWidth
	case c.UI.Width < minWidth:
		return minWidth
	default:
		return c.UI.Width
	}
}

func (c Config) Template() string {
	if strings.TrimSpace(c.UI.Template) == "" {
		return defaultTemplate
	}
	return c.UI.Template
}

func (c Config) Dark() bool {
	if c.UI.Dark == nil {
		return true
	}
	return *c.UI.Dark
}

func (c Config) TrainingTitle() string {
	return phaseTitle(c.Phases.Training.Title, defaultTrainingTitle)
}

func (c Config) TestingTitle() string {
	return phaseTitle(c.Phases.Testing.Title, defaultTestingTitle)
}

func (c Config) TrainingDescription() string {
	return strings.TrimSpace(c.Phases.Training.Description)
}

func (c Config) TestingDescription() string {
	return strings.TrimSpace(c.Phases.Testing.Description)
}

// Validate returns warnings for settings the header tolerates but that
// probably do not describe a two-phase experiment.
func (c Config) Validate() []string {
	var warnings []string
	if c.Experiment.Trials != nil && *c.Experiment.Trials < 0 {
		warnings = append(warnings, fmt.Sprintf("experiment.trials %d is negative, using 0", *c.Experiment.Trials))
	}
	if trials := c.Trials(); trials%2 != 0 {
		warnings = append(warnings, fmt.Sprintf("experiment.trials %d is odd, phases get %d trials each", trials, trials/2))
	}
	if c.UI.Width > 0 && c.UI.Width < minWidth {
		warnings = append(warnings, fmt.Sprintf("ui.width %d is below %d", c.UI.Width, minWidth))
	}
	return warnings
}

func phaseTitle(value, fallback string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback
	}
	return value
}

func readTOML(path string, out any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}
	return toml.Unmarshal(data, out)
}
