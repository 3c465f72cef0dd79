package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
	"github.com/preceptor-dev/preceptor/pkg/service/worker"
	"github.com/preceptor-dev/preceptor/pkg/usecase"
	"github.com/urfave/cli/v3"
)

const (
	DefaultDashboardAddr = "127.0.0.1:8080"

	minPollInterval = time.Second
	maxPageSize     = 100
)

// Duration decodes TOML strings such as "30s" or "1m30s"
type Duration time.Duration

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return goerr.Wrap(err, "invalid duration", goerr.V(ValueKey, string(b)))
	}
	*d = Duration(v)
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

// AppConfig is the optional TOML file. Every field has a default.
type AppConfig struct {
	Polling   PollingConfig   `toml:"polling"`
	Lockout   LockoutConfig   `toml:"lockout"`
	Messaging MessagingConfig `toml:"messaging"`
	Dashboard DashboardConfig `toml:"dashboard"`
}

type PollingConfig struct {
	Threads       Duration `toml:"threads"`
	OpenThread    Duration `toml:"open_thread"`
	Notifications Duration `toml:"notifications"`
}

type LockoutConfig struct {
	MaxAttempts int      `toml:"max_attempts"`
	Duration    Duration `toml:"duration"`
}

type MessagingConfig struct {
	PageSize int `toml:"page_size"`
}

type DashboardConfig struct {
	Addr string `toml:"addr"`
}

// DefaultAppConfig returns the values used when no file is given
func DefaultAppConfig() *AppConfig {
	policy := auth.DefaultLockoutPolicy()
	return &AppConfig{
		Polling: PollingConfig{
			Threads:       Duration(worker.DefaultThreadInterval),
			OpenThread:    Duration(worker.DefaultOpenThreadInterval),
			Notifications: Duration(worker.DefaultNotificationInterval),
		},
		Lockout: LockoutConfig{
			MaxAttempts: policy.MaxAttempts,
			Duration:    Duration(policy.Duration),
		},
		Messaging: MessagingConfig{PageSize: usecase.DefaultMessagePageSize},
		Dashboard: DashboardConfig{Addr: DefaultDashboardAddr},
	}
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	intervals := []struct {
		name string
		d    Duration
	}{
		{"polling.threads", a.Polling.Threads},
		{"polling.open_thread", a.Polling.OpenThread},
		{"polling.notifications", a.Polling.Notifications},
	}
	for _, iv := range intervals {
		if iv.d.Std() < minPollInterval {
			return goerr.Wrap(ErrInvalidConfig, "polling interval must be at least one second",
				goerr.V(FieldKey, iv.name), goerr.V(ValueKey, iv.d.Std().String()))
		}
	}

	if a.Lockout.MaxAttempts < 1 {
		return goerr.Wrap(ErrInvalidConfig, "lockout.max_attempts must be positive", goerr.V(ValueKey, a.Lockout.MaxAttempts))
	}
	if a.Lockout.Duration.Std() <= 0 {
		return goerr.Wrap(ErrInvalidConfig, "lockout.duration must be positive", goerr.V(ValueKey, a.Lockout.Duration.Std().String()))
	}
	if a.Messaging.PageSize < 1 || a.Messaging.PageSize > maxPageSize {
		return goerr.Wrap(ErrInvalidConfig, "messaging.page_size must be between 1 and 100", goerr.V(ValueKey, a.Messaging.PageSize))
	}
	if a.Dashboard.Addr == "" {
		return goerr.Wrap(ErrInvalidConfig, "dashboard.addr is empty")
	}
	return nil
}

// LockoutPolicy converts the lockout section
func (a *AppConfig) LockoutPolicy() auth.LockoutPolicy {
	return auth.LockoutPolicy{
		MaxAttempts: a.Lockout.MaxAttempts,
		Duration:    a.Lockout.Duration.Std(),
	}
}

func (a *AppConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("polling.threads", a.Polling.Threads.Std().String()),
		slog.String("polling.open_thread", a.Polling.OpenThread.Std().String()),
		slog.String("polling.notifications", a.Polling.Notifications.Std().String()),
		slog.Int("lockout.max_attempts", a.Lockout.MaxAttempts),
		slog.Int("messaging.page_size", a.Messaging.PageSize),
		slog.String("dashboard.addr", a.Dashboard.Addr),
	)
}

// LoadAppConfiguration loads the application configuration from a TOML file.
// Keys missing from the file keep their defaults.
func LoadAppConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, goerr.Wrap(ErrConfigNotFound, "failed to read config file", goerr.V(ConfigPathKey, path))
		}
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V(ConfigPathKey, path))
	}

	config := DefaultAppConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, goerr.Wrap(ErrInvalidConfig, "failed to parse TOML config", goerr.V(ConfigPathKey, path), goerr.V("error", err.Error()))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V(ConfigPathKey, path))
	}

	return config, nil
}

// App holds the --config flag
type App struct {
	path string
}

func (x *App) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to the TOML configuration file (polling, lockout, messaging, dashboard)",
			Sources:     cli.EnvVars("PRECEPTOR_CONFIG"),
			Destination: &x.path,
		},
	}
}

// Configure loads the file when one was given, otherwise returns the defaults
func (x *App) Configure() (*AppConfig, error) {
	if x.path == "" {
		return DefaultAppConfig(), nil
	}
	return LoadAppConfiguration(x.path)
}
