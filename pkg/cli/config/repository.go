package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/repository/file"
	"github.com/preceptor-dev/preceptor/pkg/repository/firestore"
	"github.com/preceptor-dev/preceptor/pkg/repository/memory"
	"github.com/preceptor-dev/preceptor/pkg/repository/redis"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Repository holds CLI flags for the session repository backend
type Repository struct {
	backend    string
	profile    string
	dir        string
	projectID  string
	databaseID string
	redisURL   string
}

// Flags returns CLI flags for repository configuration
func (r *Repository) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "repository-backend",
			Usage:       "Session repository backend (file, memory, firestore or redis)",
			Category:    "Repository",
			Value:       "file",
			Sources:     cli.EnvVars("PRECEPTOR_REPOSITORY_BACKEND"),
			Destination: &r.backend,
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Profile name; each profile keeps its own session and lockout state",
			Category:    "Repository",
			Value:       "default",
			Sources:     cli.EnvVars("PRECEPTOR_PROFILE"),
			Destination: &r.profile,
		},
		&cli.StringFlag{
			Name:        "session-dir",
			Usage:       "Directory for the file backend (default: user config dir)",
			Category:    "Repository",
			Sources:     cli.EnvVars("PRECEPTOR_SESSION_DIR"),
			Destination: &r.dir,
		},
		&cli.StringFlag{
			Name:        "firestore-project-id",
			Usage:       "Firestore Project ID (required when using firestore backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("PRECEPTOR_FIRESTORE_PROJECT_ID"),
			Destination: &r.projectID,
		},
		&cli.StringFlag{
			Name:        "firestore-database-id",
			Usage:       "Firestore Database ID",
			Category:    "Repository",
			Sources:     cli.EnvVars("PRECEPTOR_FIRESTORE_DATABASE_ID"),
			Destination: &r.databaseID,
		},
		&cli.StringFlag{
			Name:        "redis-url",
			Usage:       "Redis URL, e.g. redis://localhost:6379/0 (required when using redis backend)",
			Category:    "Repository",
			Sources:     cli.EnvVars("PRECEPTOR_REDIS_URL"),
			Destination: &r.redisURL,
		},
	}
}

func (r Repository) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("backend", r.backend),
		slog.String("profile", r.profile),
	)
}

// Backend returns the configured backend type
func (r *Repository) Backend() string {
	return r.backend
}

// Profile returns the profile name
func (r *Repository) Profile() string {
	return r.profile
}

// Configure initializes and returns a repository based on the configured backend.
// The caller is responsible for calling Close() on the returned repository.
func (r *Repository) Configure(ctx context.Context) (interfaces.Repository, error) {
	switch r.backend {
	case "", "file":
		dir := r.dir
		if dir == "" {
			d, err := file.DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		repo, err := file.New(dir, r.profile)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize file repository")
		}
		logging.Default().Debug("Using file repository", "dir", repo.Dir())
		return repo, nil

	case "memory":
		logging.Default().Info("Using in-memory repository, the session is lost on exit")
		return memory.New(), nil

	case "firestore":
		if r.projectID == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "firestore-project-id is required when using firestore backend")
		}
		repo, err := firestore.New(ctx, r.projectID, r.databaseID, []firestore.Option{firestore.WithProfile(r.profile)})
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize firestore repository")
		}
		logging.Default().Info("Using Firestore repository",
			"project_id", r.projectID,
			"database_id", r.databaseID,
		)
		return repo, nil

	case "redis":
		if r.redisURL == "" {
			return nil, goerr.Wrap(ErrMissingSetting, "redis-url is required when using redis backend")
		}
		repo, err := redis.New(ctx, r.redisURL, redis.WithProfile(r.profile))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to initialize redis repository")
		}
		logging.Default().Info("Using Redis repository")
		return repo, nil

	default:
		return nil, goerr.Wrap(ErrInvalidBackend, "unknown repository backend", goerr.V(BackendKey, r.backend))
	}
}
