package credentials

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"

	"github.com/joho/godotenv"
)

// EnvFileSource reads the process environment overlaid on a local .env file.
// Process variables take precedence over file values. The file is read once,
// on first lookup; a missing file is treated as empty.
type EnvFileSource struct {
	Path string

	once  sync.Once
	vars  map[string]string
	err   error
	reads int
}

// NewEnvFileSource creates a source backed by the .env file at path
func NewEnvFileSource(path string) *EnvFileSource {
	return &EnvFileSource{Path: path}
}

func (e *EnvFileSource) Name() string { return "environment" }

func (e *EnvFileSource) Lookup(ctx context.Context, key string) (string, bool, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v, true, nil
	}

	e.once.Do(e.load)
	if e.err != nil {
		return "", false, e.err
	}
	v, ok := e.vars[key]
	return v, ok && v != "", nil
}

func (e *EnvFileSource) load() {
	e.reads++
	if e.Path == "" {
		return
	}
	vars, err := godotenv.Read(e.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return
	}
	e.vars, e.err = vars, err
}
