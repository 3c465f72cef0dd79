package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/preceptor-dev/preceptor/pkg/cli/config"
	"github.com/preceptor-dev/preceptor/pkg/repository/file"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "preceptor.toml")
	gt.NoError(t, os.WriteFile(path, []byte(content), 0600)).Required()
	return path
}

func TestLoadAppConfiguration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
		check   func(t *testing.T, cfg *config.AppConfig)
	}{
		{
			name: "full configuration",
			content: `
[polling]
threads = "45s"
open_thread = "5s"
notifications = "1m"

[lockout]
max_attempts = 3
duration = "2m"

[messaging]
page_size = 50

[dashboard]
addr = ":9090"
`,
			check: func(t *testing.T, cfg *config.AppConfig) {
				gt.Value(t, cfg.Polling.Threads.Std()).Equal(45 * time.Second)
				gt.Value(t, cfg.Polling.OpenThread.Std()).Equal(5 * time.Second)
				gt.Value(t, cfg.Polling.Notifications.Std()).Equal(time.Minute)
				gt.Number(t, cfg.LockoutPolicy().MaxAttempts).Equal(3)
				gt.Value(t, cfg.LockoutPolicy().Duration).Equal(2 * time.Minute)
				gt.Number(t, cfg.Messaging.PageSize).Equal(50)
				gt.Value(t, cfg.Dashboard.Addr).Equal(":9090")
			},
		},
		{
			name: "partial file keeps defaults",
			content: `
[polling]
threads = "10s"
`,
			check: func(t *testing.T, cfg *config.AppConfig) {
				def := config.DefaultAppConfig()
				gt.Value(t, cfg.Polling.Threads.Std()).Equal(10 * time.Second)
				gt.Value(t, cfg.Polling.OpenThread).Equal(def.Polling.OpenThread)
				gt.Number(t, cfg.Lockout.MaxAttempts).Equal(5)
				gt.Value(t, cfg.Lockout.Duration.Std()).Equal(60 * time.Second)
				gt.Value(t, cfg.Dashboard.Addr).Equal(config.DefaultDashboardAddr)
			},
		},
		{
			name:    "interval too short",
			content: "[polling]\nthreads = \"100ms\"\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "bad duration",
			content: "[polling]\nthreads = \"soon\"\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "zero attempts",
			content: "[lockout]\nmax_attempts = 0\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "page size too large",
			content: "[messaging]\npage_size = 1000\n",
			wantErr: config.ErrInvalidConfig,
		},
		{
			name:    "broken toml",
			content: "[polling\n",
			wantErr: config.ErrInvalidConfig,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := config.LoadAppConfiguration(writeConfig(t, tc.content))
			if tc.wantErr != nil {
				gt.Error(t, err).Is(tc.wantErr)
				return
			}
			gt.NoError(t, err).Required()
			tc.check(t, cfg)
		})
	}
}

func TestLoadAppConfiguration_NotFound(t *testing.T) {
	_, err := config.LoadAppConfiguration(filepath.Join(t.TempDir(), "missing.toml"))
	gt.Error(t, err).Is(config.ErrConfigNotFound)
}

func TestApp_DefaultsWithoutPath(t *testing.T) {
	cfg, err := config.NewAppForTest("").Configure()
	gt.NoError(t, err).Required()
	gt.NoError(t, cfg.Validate())
	gt.Number(t, cfg.Messaging.PageSize).Equal(30)
	gt.Value(t, cfg.Polling.Threads.Std()).Equal(30 * time.Second)
	gt.Value(t, cfg.Polling.OpenThread.Std()).Equal(10 * time.Second)
}

func TestRepository_Configure(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		repo, err := config.NewRepositoryForTest("memory", "default", "").Configure(ctx)
		gt.NoError(t, err).Required()
		_, ok := repo.(*memory.Memory)
		gt.Bool(t, ok).True()
	})

	t.Run("file uses profile directory", func(t *testing.T) {
		dir := t.TempDir()
		repo, err := config.NewRepositoryForTest("file", "night-shift", dir).Configure(ctx)
		gt.NoError(t, err).Required()
		f, ok := repo.(*file.File)
		gt.Bool(t, ok).True()
		gt.Value(t, f.Dir()).Equal(filepath.Join(dir, "night-shift"))
	})

	t.Run("firestore without project", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("firestore", "default", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingSetting)
	})

	t.Run("redis without url", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("redis", "default", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrMissingSetting)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := config.NewRepositoryForTest("sqlite", "default", "").Configure(ctx)
		gt.Error(t, err).Is(config.ErrInvalidBackend)
	})
}

func TestAPI_Configure(t *testing.T) {
	repo := memory.New()

	_, err := config.NewAPIForTest("").Configure(repo.Session())
	gt.Error(t, err).Is(config.ErrMissingSetting)

	_, err = config.NewAPIForTest("ftp://example.com").Configure(repo.Session())
	gt.Error(t, err)

	client, err := config.NewAPIForTest("https://api.example.com/api/").Configure(repo.Session())
	gt.NoError(t, err)
	gt.Value(t, client).NotNil()
}

func TestLogger_Configure(t *testing.T) {
	output := filepath.Join(t.TempDir(), "preceptor.log")

	closer, err := config.NewLoggerForTest("debug", "json", output).Configure()
	gt.NoError(t, err).Required()
	closer()

	_, err = config.NewLoggerForTest("verbose", "json", "stderr").Configure()
	gt.Error(t, err).Is(config.ErrInvalidConfig)

	_, err = config.NewLoggerForTest("info", "xml", "stderr").Configure()
	gt.Error(t, err).Is(config.ErrInvalidConfig)
}

func TestExport_Configure(t *testing.T) {
	ctx := context.Background()

	sink, closer, err := config.NewExportForTest("", "").Configure(ctx)
	gt.NoError(t, err)
	gt.Bool(t, sink == nil).True()
	closer()

	_, _, err = config.NewExportForTest(t.TempDir(), "bucket").Configure(ctx)
	gt.Error(t, err).Is(config.ErrInvalidConfig)

	sink, _, err = config.NewExportForTest(t.TempDir(), "").Configure(ctx)
	gt.NoError(t, err)
	gt.Value(t, sink).NotNil()
}

func TestLoadDotEnv(t *testing.T) {
	gt.NoError(t, config.LoadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	gt.NoError(t, os.WriteFile(path, []byte("PRECEPTOR_TEST_DOTENV=loaded\n"), 0600)).Required()
	t.Setenv("PRECEPTOR_TEST_DOTENV", "")
	os.Unsetenv("PRECEPTOR_TEST_DOTENV")

	gt.NoError(t, config.LoadDotEnv(path))
	gt.Value(t, os.Getenv("PRECEPTOR_TEST_DOTENV")).Equal("loaded")
}
