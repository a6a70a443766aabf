package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backend kinds.
const (
	BackendREST     = "rest"
	BackendSupabase = "supabase"
)

// Read-state drivers.
const (
	ReadStateSQLite   = "sqlite"
	ReadStatePostgres = "postgres"
	ReadStateMemory   = "memory"
)

// BackendConfig selects and addresses the booking backend.
type BackendConfig struct {
	// Kind is "rest" or "supabase".
	Kind string `mapstructure:"kind" yaml:"kind"`

	// BaseURL is the REST API root or the Supabase project URL.
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// AnonKey is the Supabase anon key sent as the apikey header.
	AnonKey string `mapstructure:"anon_key" yaml:"anon_key"`
}

// PollConfig controls the refresh schedule.
type PollConfig struct {
	IntervalSec     int `mapstructure:"interval_sec" yaml:"interval_sec"`
	FetchTimeoutSec int `mapstructure:"fetch_timeout_sec" yaml:"fetch_timeout_sec"`
}

// WindowsConfig holds the recency windows used by the notification rules.
type WindowsConfig struct {
	UpcomingDays        int `mapstructure:"upcoming_days" yaml:"upcoming_days"`
	NewClientHours      int `mapstructure:"new_client_hours" yaml:"new_client_hours"`
	ContractSignedHours int `mapstructure:"contract_signed_hours" yaml:"contract_signed_hours"`
	NewBookingHours     int `mapstructure:"new_booking_hours" yaml:"new_booking_hours"`

	// PaymentReceivedCap limits payment-received notifications per pass.
	// Zero or negative disables the cap.
	PaymentReceivedCap int `mapstructure:"payment_received_cap" yaml:"payment_received_cap"`
}

// ReadStateConfig selects where acknowledged notification IDs are kept.
type ReadStateConfig struct {
	Driver string `mapstructure:"driver" yaml:"driver"`
	Path   string `mapstructure:"path" yaml:"path"`
	DSN    string `mapstructure:"dsn" yaml:"dsn"`
}

// ServerConfig holds settings for the HTTP surface.
type ServerConfig struct {
	Addr string `mapstructure:"addr" yaml:"addr"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Backend   BackendConfig   `mapstructure:"backend" yaml:"backend"`
	Poll      PollConfig      `mapstructure:"poll" yaml:"poll"`
	Windows   WindowsConfig   `mapstructure:"windows" yaml:"windows"`
	ReadState ReadStateConfig `mapstructure:"readstate" yaml:"readstate"`
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
}

// ConfigDir returns ~/.config/venuedesk.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "venuedesk")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/venuedesk/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// setDefaults registers every key so that environment overrides resolve
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("backend.kind", BackendREST)
	v.SetDefault("backend.base_url", "http://localhost:3001/api")
	v.SetDefault("backend.anon_key", "")
	v.SetDefault("poll.interval_sec", 300)
	v.SetDefault("poll.fetch_timeout_sec", 30)
	v.SetDefault("windows.upcoming_days", 7)
	v.SetDefault("windows.new_client_hours", 24)
	v.SetDefault("windows.contract_signed_hours", 48)
	v.SetDefault("windows.new_booking_hours", 48)
	v.SetDefault("windows.payment_received_cap", 3)
	v.SetDefault("readstate.driver", ReadStateSQLite)
	v.SetDefault("readstate.path", filepath.Join(ConfigDir(), "state.db"))
	v.SetDefault("readstate.dsn", "")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("log.level", "INFO")
	v.SetDefault("log.file", "")
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file is not an error: defaults apply. VENUEDESK_* environment
// variables override both (e.g. VENUEDESK_BACKEND_BASE_URL).
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("VENUEDESK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks enumerated fields.
func (c *AppConfig) Validate() error {
	switch c.Backend.Kind {
	case BackendREST, BackendSupabase:
	default:
		return fmt.Errorf("backend.kind %q: want %q or %q", c.Backend.Kind, BackendREST, BackendSupabase)
	}
	switch c.ReadState.Driver {
	case ReadStateSQLite, ReadStatePostgres, ReadStateMemory:
	default:
		return fmt.Errorf("readstate.driver %q: want sqlite, postgres or memory", c.ReadState.Driver)
	}
	if c.ReadState.Driver == ReadStatePostgres && c.ReadState.DSN == "" {
		return errors.New("readstate.dsn is required for the postgres driver")
	}
	if c.Poll.IntervalSec <= 0 {
		return fmt.Errorf("poll.interval_sec must be positive, got %d", c.Poll.IntervalSec)
	}
	return nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("backend", cfg.Backend)
	v.Set("poll", cfg.Poll)
	v.Set("windows", cfg.Windows)
	v.Set("readstate", cfg.ReadState)
	v.Set("server", cfg.Server)
	v.Set("log", cfg.Log)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
