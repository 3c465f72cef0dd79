package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/m-mizutani/goerr/v2"
)

// LoadDotEnv loads environment variables from path. A missing file is not an error.
// Variables already set in the process environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to load env file", goerr.V(ConfigPathKey, path))
	}
	return nil
}
