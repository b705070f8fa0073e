// Package conf defines the application settings and loads them from a YAML
// configuration file with viper, falling back to embedded defaults.
package conf

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/foundbox/foundbox/internal/errors"
)

//go:embed config.yaml
var defaultConfig []byte

// DateLayout is the calendar date form used in the record store and the UI.
const DateLayout = "2006-01-02"

// RetentionDays is how long a found item is kept before it is eligible for
// disposal or donation.
const RetentionDays = 30

// MainSettings contains application-wide settings.
type MainSettings struct {
	Name string      // instance name shown in the UI
	Log  LogSettings // application log settings
}

// LogSettings contains file log settings.
type LogSettings struct {
	Enabled bool   // true to write a JSON log file
	Path    string // path to the log file
}

// ModelSettings points at the classifier artifacts.
type ModelSettings struct {
	Path       string // path to the TensorFlow Lite model file
	LabelsPath string // path to the label file
}

// StoreSettings points at the record store artifacts.
type StoreSettings struct {
	CSVPath  string // path to the CSV backing file
	ImageDir string // directory for saved item photos
}

// ClockSettings pins the application's notion of "today".
type ClockSettings struct {
	Today string // fixed date in 2006-01-02 form; empty means wall clock
}

// GameSettings configures the typing minigame.
type GameSettings struct {
	TimeLimit   int    // seconds per word in timer mode
	Mode        string // "timer" or "planet"
	WordSource  string // "space" or "labels"
	MaxDistance int    // planet mode: impact distance
}

// ServerSettings configures the web server.
type ServerSettings struct {
	Address string // listen address, e.g. ":8080"
	Debug   bool   // enable request debug logging
}

// Settings is the root configuration structure.
type Settings struct {
	Main   MainSettings
	Model  ModelSettings
	Store  StoreSettings
	Clock  ClockSettings
	Game   GameSettings
	Server ServerSettings
	Debug  bool // global debug flag
}

// Load reads the configuration from disk, creating a default config file on
// first run, and returns the populated settings.
func Load() (*Settings, error) {
	if err := initViper(); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := viper.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	return settings, nil
}

func initViper() error {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(filepath.Join(home, ".config", "foundbox"))
	}

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return errors.New(fmt.Errorf("error reading config file: %w", err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
		return createDefaultConfig()
	}

	return nil
}

// createDefaultConfig writes the embedded default configuration next to the
// binary on first run so the operator has something to edit.
func createDefaultConfig() error {
	configPath := "config.yaml"
	if err := os.WriteFile(configPath, defaultConfig, 0o644); err != nil {
		return errors.New(fmt.Errorf("error writing default config file: %w", err)).
			Component("conf").
			Category(errors.CategoryFileIO).
			Context("path", configPath).
			Build()
	}
	return viper.ReadInConfig()
}

// Today resolves the application's fixed "today" date. An unset or malformed
// override falls back to the real wall clock date.
func (s *Settings) Today() time.Time {
	if s.Clock.Today != "" {
		if t, err := time.Parse(DateLayout, s.Clock.Today); err == nil {
			return t
		}
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks settings for values that would break the application.
func (s *Settings) Validate() error {
	if s.Game.TimeLimit <= 0 {
		return errors.Newf("game time limit must be positive, got %d", s.Game.TimeLimit).
			Component("conf").
			Category(errors.CategoryValidation).
			Context("time_limit", s.Game.TimeLimit).
			Build()
	}
	switch s.Game.Mode {
	case "timer", "planet":
	default:
		return errors.Newf("unknown game mode: %q", s.Game.Mode).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	switch s.Game.WordSource {
	case "space", "labels":
	default:
		return errors.Newf("unknown game word source: %q", s.Game.WordSource).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if s.Game.MaxDistance <= 0 {
		return errors.Newf("game max distance must be positive, got %d", s.Game.MaxDistance).
			Component("conf").
			Category(errors.CategoryValidation).
			Build()
	}
	if s.Clock.Today != "" {
		if _, err := time.Parse(DateLayout, s.Clock.Today); err != nil {
			return errors.New(fmt.Errorf("invalid clock.today value %q: %w", s.Clock.Today, err)).
				Component("conf").
				Category(errors.CategoryValidation).
				Build()
		}
	}
	return nil
}
