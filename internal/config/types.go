package config

import "time"

// Output formats accepted by the output setting
const (
	OutputTable = "table"
	OutputWide  = "wide"
	OutputJSON  = "json"
	OutputYAML  = "yaml"
)

// Progress modes accepted by the progress setting
const (
	ProgressBar     = "bar"
	ProgressCounter = "counter"
	ProgressSilent  = "silent"
)

// Config represents the sweep configuration file structure
type Config struct {
	// Settings are the top-level defaults applied to every run
	Settings `mapstructure:",squash" yaml:",inline"`

	// Profiles are named overlays selected with --profile
	Profiles map[string]Settings `mapstructure:"profiles" yaml:"profiles,omitempty" validate:"dive"`
}

// Settings contains the tunables of a single run. Zero values mean unset.
type Settings struct {
	// Parallel is the maximum number of concurrently running tasks
	Parallel int `mapstructure:"parallel" yaml:"parallel,omitempty" json:"parallel,omitempty" validate:"gte=0"`

	// Timeout bounds the whole experiment; zero disables it
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout,omitempty" json:"timeout,omitempty" validate:"gte=0"`

	// Output is the report format (table, wide, json, yaml)
	Output string `mapstructure:"output" yaml:"output,omitempty" json:"output,omitempty" validate:"omitempty,oneof=table wide json yaml"`

	// Progress selects the progress display (bar, counter, silent)
	Progress string `mapstructure:"progress" yaml:"progress,omitempty" json:"progress,omitempty" validate:"omitempty,oneof=bar counter silent"`

	// FailFast stops dispatching new tasks after the first failure
	FailFast bool `mapstructure:"fail-fast" yaml:"fail-fast,omitempty" json:"failFast,omitempty"`

	// NoColor disables colored output
	NoColor bool `mapstructure:"no-color" yaml:"no-color,omitempty" json:"noColor,omitempty"`
}

// Defaults returns the built-in settings
func Defaults() Settings {
	return Settings{
		Parallel: 4,
		Output:   OutputTable,
		Progress: ProgressBar,
	}
}

// Overlay returns s with every set field of o applied on top.
// Boolean fields can only be switched on by an overlay.
func (s Settings) Overlay(o Settings) Settings {
	if o.Parallel != 0 {
		s.Parallel = o.Parallel
	}
	if o.Timeout != 0 {
		s.Timeout = o.Timeout
	}
	if o.Output != "" {
		s.Output = o.Output
	}
	if o.Progress != "" {
		s.Progress = o.Progress
	}
	s.FailFast = s.FailFast || o.FailFast
	s.NoColor = s.NoColor || o.NoColor
	return s
}
