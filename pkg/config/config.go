// Package config loads the algotrace configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/algotrace/config.toml
// unless a path is given. Every field is optional; missing fields keep
// their [Default] values. A few settings can be overridden from the
// environment:
//
//	ALGOTRACE_SERVICE_URL   service.base_url
//	ALGOTRACE_CACHE         cache.backend
//	ALGOTRACE_REDIS_ADDR    cache.redis_addr
//
// Example file:
//
//	log_level = "info"
//
//	[service]
//	base_url = "http://localhost:3000"
//	timeout = "10s"
//	retries = 1
//
//	[cache]
//	backend = "file"
//	ttl = "24h"
//
//	[playback]
//	speed = 1.5
//	[playback.intervals]
//	bubble = 1000
package config

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/algotrace/pkg/algo"
	"github.com/matzehuels/algotrace/pkg/cache"
	"github.com/matzehuels/algotrace/pkg/errors"
	"github.com/matzehuels/algotrace/pkg/httputil"
	"github.com/matzehuels/algotrace/pkg/playback"
	"github.com/matzehuels/algotrace/pkg/session"
	"github.com/matzehuels/algotrace/pkg/traceclient"
)

// Environment variables that override file settings.
const (
	EnvServiceURL = "ALGOTRACE_SERVICE_URL"
	EnvCache      = "ALGOTRACE_CACHE"
	EnvRedisAddr  = "ALGOTRACE_REDIS_ADDR"
)

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

var validate = validator.New()

// Config is the full configuration.
type Config struct {
	LogLevel string         `toml:"log_level" validate:"oneof=debug info warn error"`
	Service  ServiceConfig  `toml:"service"`
	Cache    CacheConfig    `toml:"cache"`
	Playback PlaybackConfig `toml:"playback"`
	Server   ServerConfig   `toml:"server"`
}

// ServiceConfig describes the trace service.
type ServiceConfig struct {
	BaseURL    string        `toml:"base_url" validate:"required,url"`
	Timeout    time.Duration `toml:"timeout" validate:"gt=0"`
	Retries    int           `toml:"retries" validate:"gte=1,lte=10"`
	RetryDelay time.Duration `toml:"retry_delay" validate:"gte=0"`
}

// CacheConfig selects the trace cache backend.
type CacheConfig struct {
	Backend   string        `toml:"backend" validate:"oneof=none file redis"`
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `toml:"redis_db" validate:"gte=0,lte=15"`
}

// PlaybackConfig tunes playback pacing.
type PlaybackConfig struct {
	Speed float64 `toml:"speed" validate:"gt=0"`
	// Intervals overrides the tick interval per algorithm, in milliseconds.
	Intervals map[string]int `toml:"intervals" validate:"dive,gt=0"`
}

// ServerConfig configures `algotrace serve`.
type ServerConfig struct {
	Addr       string        `toml:"addr" validate:"required"`
	SessionTTL time.Duration `toml:"session_ttl" validate:"gt=0"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		Service: ServiceConfig{
			BaseURL:    traceclient.DefaultBaseURL,
			Timeout:    playback.DefaultTimeout,
			Retries:    httputil.DefaultPolicy.Attempts,
			RetryDelay: httputil.DefaultPolicy.Delay,
		},
		Cache: CacheConfig{
			Backend:   cache.BackendFile,
			TTL:       cache.DefaultTTL,
			RedisAddr: "localhost:6379",
		},
		Playback: PlaybackConfig{Speed: 1},
		Server: ServerConfig{
			Addr:       ":8080",
			SessionTTL: session.DefaultTTL,
		},
	}
}

// DefaultPath returns the default configuration file location.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidConfig, err, "locate config directory")
	}
	return filepath.Join(dir, "algotrace", FileName), nil
}

// Load reads the file at path, applies environment overrides and validates
// the result. With an empty path the default location is used and a missing
// file yields the defaults; an explicit path must exist.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if cfg, err = Decode(data); err != nil {
			return Config{}, errors.Wrap(errors.GetCode(err), err, "load %s", path)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config")
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Decode parses TOML over the defaults. Unknown keys are rejected.
func Decode(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment using getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvServiceURL); v != "" {
		c.Service.BaseURL = v
	}
	if v := getenv(EnvCache); v != "" {
		c.Cache.Backend = strings.ToLower(v)
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
	}
}

// Validate checks field constraints and that interval overrides name
// catalog algorithms.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}

	names := make([]string, 0, len(c.Playback.Intervals))
	for name := range c.Playback.Intervals {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := algo.Lookup(name); err != nil {
			return errors.New(errors.ErrCodeInvalidConfig, "playback.intervals: unknown algorithm %q", name).WithField(name)
		}
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid config")
	}
	fe := verrs[0]
	field := strings.ToLower(strings.TrimPrefix(fe.Namespace(), "Config."))
	return errors.New(errors.ErrCodeInvalidConfig, "%s fails %q (got %v)", field, fe.Tag(), fe.Value()).WithField(field)
}

// =============================================================================
// Derived options
// =============================================================================

// RetryPolicy returns the trace request retry policy.
func (c Config) RetryPolicy() httputil.Policy {
	return httputil.Policy{Attempts: c.Service.Retries, Delay: c.Service.RetryDelay}
}

// CacheOptions returns the options for [cache.Open].
func (c Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:   c.Cache.Backend,
		Dir:       c.Cache.Dir,
		RedisAddr: c.Cache.RedisAddr,
		RedisDB:   c.Cache.RedisDB,
	}
}

// Interval returns the configured tick interval for algorithm, or 0 when
// the catalog interval applies.
func (c Config) Interval(algorithm string) time.Duration {
	ms, ok := c.Playback.Intervals[algorithm]
	if !ok {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}

// PlaybackOptions returns controller options for algorithm.
func (c Config) PlaybackOptions(algorithm string) playback.Options {
	return playback.Options{
		Interval: c.Interval(algorithm),
		Speed:    c.Playback.Speed,
		Timeout:  c.Service.Timeout,
	}
}
