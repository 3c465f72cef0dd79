package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/service/export"
	"github.com/preceptor-dev/preceptor/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// Export selects where exported reports are written: a local directory or a GCS bucket
type Export struct {
	dir    string
	bucket string
	prefix string
}

func (x *Export) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "export-dir",
			Usage:       "Local directory for exported reports",
			Category:    "Export",
			Destination: &x.dir,
			Sources:     cli.EnvVars("PRECEPTOR_EXPORT_DIR"),
		},
		&cli.StringFlag{
			Name:        "export-gcs-bucket",
			Usage:       "Cloud Storage bucket for exported reports",
			Category:    "Export",
			Destination: &x.bucket,
			Sources:     cli.EnvVars("PRECEPTOR_EXPORT_GCS_BUCKET"),
		},
		&cli.StringFlag{
			Name:        "export-gcs-prefix",
			Usage:       "Object name prefix inside the bucket",
			Category:    "Export",
			Destination: &x.prefix,
			Sources:     cli.EnvVars("PRECEPTOR_EXPORT_GCS_PREFIX"),
		},
	}
}

func (x Export) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("dir", x.dir),
		slog.String("bucket", x.bucket),
	)
}

// Configure returns a nil sink when neither target is set. The closer is always non-nil.
func (x *Export) Configure(ctx context.Context) (interfaces.ReportSink, func(), error) {
	noop := func() {}

	switch {
	case x.dir != "" && x.bucket != "":
		return nil, noop, goerr.Wrap(ErrInvalidConfig, "set either --export-dir or --export-gcs-bucket, not both")

	case x.bucket != "":
		sink, err := export.NewGCSSink(ctx, x.bucket, x.prefix)
		if err != nil {
			return nil, noop, goerr.Wrap(err, "failed to create GCS export sink")
		}
		closer := func() {
			if err := sink.Close(); err != nil {
				logging.Default().Warn("failed to close GCS client", "error", err)
			}
		}
		return sink, closer, nil

	case x.dir != "":
		sink, err := export.NewFileSink(x.dir)
		if err != nil {
			return nil, noop, goerr.Wrap(err, "failed to create file export sink")
		}
		return sink, noop, nil

	default:
		return nil, noop, nil
	}
}
