package export

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/utils/safe"
	"google.golang.org/api/option"
)

var ErrInvalidName = goerr.New("invalid export name")

func validateName(name string) error {
	if name == "" || strings.Contains(name, "..") || strings.HasPrefix(name, "/") {
		return goerr.Wrap(ErrInvalidName, "name must be a relative path", goerr.V("name", name))
	}
	return nil
}

// FileSink writes exports into a local directory
type FileSink struct {
	dir string
}

var _ interfaces.ReportSink = &FileSink{}

func NewFileSink(dir string) (*FileSink, error) {
	if dir == "" {
		return nil, goerr.New("export directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create export directory", goerr.V("dir", dir))
	}
	return &FileSink{dir: dir}, nil
}

func (s *FileSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	p := filepath.Join(s.dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return "", goerr.Wrap(err, "failed to create export directory", goerr.V("path", p))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", goerr.Wrap(err, "failed to write export", goerr.V("path", p))
	}
	return p, nil
}

// GCSSink uploads exports to a Cloud Storage bucket
type GCSSink struct {
	client *storage.Client
	bucket string
	prefix string
}

var _ interfaces.ReportSink = &GCSSink{}

func NewGCSSink(ctx context.Context, bucket, prefix string, opts ...option.ClientOption) (*GCSSink, error) {
	if bucket == "" {
		return nil, goerr.New("GCS bucket is required")
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create storage client", goerr.V("bucket", bucket))
	}

	return &GCSSink{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}, nil
}

func (s *GCSSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	objName := name
	if s.prefix != "" {
		objName = path.Join(s.prefix, name)
	}

	w := s.client.Bucket(s.bucket).Object(objName).NewWriter(ctx)
	w.ContentType = "application/json"

	if _, err := w.Write(data); err != nil {
		safe.Close(ctx, w)
		return "", goerr.Wrap(err, "failed to write object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", objName))
	}
	if err := w.Close(); err != nil {
		return "", goerr.Wrap(err, "failed to finalize object",
			goerr.V("bucket", s.bucket),
			goerr.V("object", objName))
	}

	return "gs://" + s.bucket + "/" + objName, nil
}

func (s *GCSSink) Close() error {
	return s.client.Close()
}
