package config

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
)

type settingsKey struct{}

// NewContext returns a context carrying the resolved settings of a command
func NewContext(ctx context.Context, s Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

// FromContext returns the settings stored by NewContext, or the defaults
func FromContext(ctx context.Context) Settings {
	if ctx != nil {
		if s, ok := ctx.Value(settingsKey{}).(Settings); ok {
			return s
		}
	}
	return Defaults()
}

// ApplyFlags overrides s with every flag the user set explicitly.
// Flags are looked up by their config key; missing flags are ignored.
func ApplyFlags(s Settings, flags *pflag.FlagSet) (Settings, error) {
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	var err error
	if changed("parallel") {
		if s.Parallel, err = flags.GetInt("parallel"); err != nil {
			return s, fmt.Errorf("invalid --parallel: %w", err)
		}
	}
	if changed("timeout") {
		if s.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return s, fmt.Errorf("invalid --timeout: %w", err)
		}
	}
	if changed("output") {
		if s.Output, err = flags.GetString("output"); err != nil {
			return s, fmt.Errorf("invalid --output: %w", err)
		}
	}
	if changed("progress") {
		if s.Progress, err = flags.GetString("progress"); err != nil {
			return s, fmt.Errorf("invalid --progress: %w", err)
		}
	}
	if changed("fail-fast") {
		if s.FailFast, err = flags.GetBool("fail-fast"); err != nil {
			return s, fmt.Errorf("invalid --fail-fast: %w", err)
		}
	}
	if changed("no-color") {
		if s.NoColor, err = flags.GetBool("no-color"); err != nil {
			return s, fmt.Errorf("invalid --no-color: %w", err)
		}
	}
	return s, nil
}

// Map renders every setting under its config key
func (s Settings) Map() map[string]interface{} {
	return map[string]interface{}{
		"parallel":  s.Parallel,
		"timeout":   s.Timeout.String(),
		"output":    s.Output,
		"progress":  s.Progress,
		"fail-fast": s.FailFast,
		"no-color":  s.NoColor,
	}
}
