package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"

	"github.com/aryankumar/sweep/internal/util"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultConfigName = ".sweep"
	defaultConfigDir  = ".sweep"
	envPrefix         = "SWEEP"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func settingsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Manager handles sweep configuration
type Manager struct {
	configPath string
	config     *Config
	viper      *viper.Viper
}

// NewManager creates a new configuration manager. An empty path searches
// ~/.sweep/.sweep.yaml and ~/.sweep.yaml.
func NewManager(configPath string) *Manager {
	return &Manager{
		configPath: configPath,
		viper:      viper.New(),
		config:     &Config{Settings: Defaults()},
	}
}

// BindFlags binds command-line flags so that explicitly set flags take
// precedence over the environment and the config file.
func (m *Manager) BindFlags(flags *pflag.FlagSet) error {
	return m.viper.BindPFlags(flags)
}

// Load loads the sweep configuration from file, environment and bound flags
func (m *Manager) Load() (*Config, error) {
	if m.configPath != "" {
		m.viper.SetConfigFile(m.configPath)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}

		m.viper.AddConfigPath(filepath.Join(home, defaultConfigDir))
		m.viper.AddConfigPath(home)
		m.viper.SetConfigName(defaultConfigName)
		m.viper.SetConfigType("yaml")
	}

	m.viper.SetEnvPrefix(envPrefix)
	m.viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	m.viper.AutomaticEnv()

	if err := m.viper.ReadInConfig(); err != nil {
		// A missing config file just means defaults
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg, err := FromViper(m.viper)
	if err != nil {
		return nil, err
	}
	m.config = cfg
	return m.config, nil
}

// FromViper unmarshals settings from v, applies defaults and validates them
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to unmarshal config: %v", util.ErrInvalidConfig, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings and profiles against their constraints
func (c *Config) Validate() error {
	err := settingsValidator().Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("%w: %v", util.ErrInvalidConfig, err)
	}

	errs := &util.MultiError{}
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Config.")
		field = strings.TrimPrefix(field, "Settings.")
		errs.Add(util.NewValidationError(field, fe.Value(), describe(fe)))
	}
	return fmt.Errorf("%w: %w", util.ErrInvalidConfig, errs)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// Save writes the current configuration to file
func (m *Manager) Save() error {
	if m.configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		m.configPath = filepath.Join(home, defaultConfigName+".yaml")
	}

	dir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := m.viper.WriteConfigAs(m.configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Path returns the config file in use, empty when none was found
func (m *Manager) Path() string {
	if used := m.viper.ConfigFileUsed(); used != "" {
		return used
	}
	return m.configPath
}

// GetConfig returns the current configuration
func (m *Manager) GetConfig() *Config {
	return m.config
}

// SetSettings replaces the top-level settings
func (m *Manager) SetSettings(s Settings) {
	m.config.Settings = s
	for key, value := range settingsMap(s) {
		m.viper.Set(key, value)
	}
}

// SetProfile sets or updates a named profile
func (m *Manager) SetProfile(name string, s Settings) {
	if m.config.Profiles == nil {
		m.config.Profiles = make(map[string]Settings)
	}

	m.config.Profiles[name] = s
	profiles := make(map[string]any, len(m.config.Profiles))
	for n, p := range m.config.Profiles {
		profiles[n] = settingsMap(p)
	}
	m.viper.Set("profiles", profiles)
}

// Profile returns the top-level settings overlaid with the named profile.
// An empty name returns the top-level settings.
func (c *Config) Profile(name string) (Settings, error) {
	if name == "" {
		return c.Settings, nil
	}

	p, ok := c.Profiles[name]
	if !ok {
		return Settings{}, fmt.Errorf("%w: unknown profile %q", util.ErrInvalidConfig, name)
	}
	return c.Settings.Overlay(p), nil
}

// applyDefaults fills unset top-level settings
func (c *Config) applyDefaults() {
	c.Settings = Defaults().Overlay(c.Settings)
}

// settingsMap renders set fields under their config keys for writing
func settingsMap(s Settings) map[string]any {
	out := make(map[string]any)
	if s.Parallel != 0 {
		out["parallel"] = s.Parallel
	}
	if s.Timeout != 0 {
		out["timeout"] = s.Timeout.String()
	}
	if s.Output != "" {
		out["output"] = s.Output
	}
	if s.Progress != "" {
		out["progress"] = s.Progress
	}
	if s.FailFast {
		out["fail-fast"] = true
	}
	if s.NoColor {
		out["no-color"] = true
	}
	return out
}
