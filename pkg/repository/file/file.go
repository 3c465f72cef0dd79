package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/interfaces"
	"github.com/preceptor-dev/preceptor/pkg/domain/model/auth"
)

const (
	sessionFileName = "session.json"
	lockoutFileName = "lockout.json"

	dirPerm  = 0o700
	filePerm = 0o600
)

// File stores credentials of one profile as JSON files under dir/profile.
// Writes go to a temporary file first and are renamed into place.
type File struct {
	dir     string
	mu      sync.Mutex
	session *sessionRepository
	lockout *lockoutRepository
}

var _ interfaces.Repository = &File{}

// New creates the profile directory if missing
func New(baseDir, profile string) (*File, error) {
	if baseDir == "" {
		return nil, goerr.New("base directory is empty")
	}
	if profile == "" {
		profile = "default"
	}

	dir := filepath.Join(baseDir, profile)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, goerr.Wrap(err, "failed to create profile directory", goerr.V("dir", dir))
	}

	f := &File{dir: dir}
	f.session = &sessionRepository{f: f}
	f.lockout = &lockoutRepository{f: f}
	return f, nil
}

// DefaultDir returns the per-user configuration directory for preceptor
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", goerr.Wrap(err, "failed to resolve user config directory")
	}
	return filepath.Join(base, "preceptor"), nil
}

func (f *File) Dir() string { return f.dir }

func (f *File) Session() interfaces.SessionRepository { return f.session }

func (f *File) Lockout() interfaces.LockoutRepository { return f.lockout }

func (f *File) Close() error { return nil }

func (f *File) read(name string, v any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to read file", goerr.V("path", path))
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, goerr.Wrap(err, "failed to decode file", goerr.V("path", path))
	}
	return true, nil
}

func (f *File) write(name string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return goerr.Wrap(err, "failed to encode file content", goerr.V("name", name))
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(f.dir, "."+name+".*")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", f.dir))
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to set file permission", goerr.V("path", tmpName))
	}
	if _, err := tmp.Write(raw); err != nil {
		_ = tmp.Close()
		return goerr.Wrap(err, "failed to write temporary file", goerr.V("path", tmpName))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary file", goerr.V("path", tmpName))
	}

	path := filepath.Join(f.dir, name)
	if err := os.Rename(tmpName, path); err != nil {
		return goerr.Wrap(err, "failed to replace file", goerr.V("path", path))
	}
	return nil
}

func (f *File) remove(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := filepath.Join(f.dir, name)
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return goerr.Wrap(err, "failed to remove file", goerr.V("path", path))
	}
	return nil
}

type sessionRepository struct {
	f *File
}

func (r *sessionRepository) Load(ctx context.Context) (*auth.Session, error) {
	var s auth.Session
	found, err := r.f.read(sessionFileName, &s)
	if err != nil || !found {
		return nil, err
	}
	return &s, nil
}

func (r *sessionRepository) Save(ctx context.Context, session *auth.Session) error {
	if err := session.Validate(); err != nil {
		return goerr.Wrap(err, "invalid session")
	}
	return r.f.write(sessionFileName, session)
}

func (r *sessionRepository) Clear(ctx context.Context) error {
	return r.f.remove(sessionFileName)
}

type lockoutRepository struct {
	f *File
}

func (r *lockoutRepository) Get(ctx context.Context) (*auth.Lockout, error) {
	var l auth.Lockout
	found, err := r.f.read(lockoutFileName, &l)
	if err != nil || !found {
		return nil, err
	}
	return &l, nil
}

func (r *lockoutRepository) Put(ctx context.Context, lockout *auth.Lockout) error {
	if lockout == nil {
		return goerr.New("lockout is nil")
	}
	return r.f.write(lockoutFileName, lockout)
}

func (r *lockoutRepository) Reset(ctx context.Context) error {
	return r.f.remove(lockoutFileName)
}
