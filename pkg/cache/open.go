package cache

import (
	"strings"

	"github.com/matzehuels/algotrace/pkg/errors"
)

// Backend names accepted by [Open].
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string
	Dir       string
	RedisAddr string
	RedisDB   int
}

// Open builds the backend named by opts.Backend. An empty name disables
// caching.
func Open(opts Options) (Cache, error) {
	switch strings.ToLower(opts.Backend) {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		dir := opts.Dir
		if dir == "" {
			d, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		fc, err := NewFileCache(dir)
		if err != nil {
			return nil, err
		}
		return fc, nil
	case BackendRedis:
		rc, err := NewRedisCache(RedisOptions{Addr: opts.RedisAddr, DB: opts.RedisDB})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", opts.Backend).WithField("backend")
}

func wrapBackend(op string, err error) error {
	if err == nil {
		return nil
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "cache %s", op)
}
