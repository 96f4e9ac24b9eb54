package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ServicePosts    = "posts"
	ServiceReviews  = "reviews"
	ServiceComments = "comments"
)

// Config validation errors
var (
	ErrUnknownService   = errors.New("unknown service")
	ErrInvalidTimeout   = errors.New("timeouts must be positive")
	ErrInvalidCacheSize = errors.New("POST_CACHE_SIZE must be positive")
	ErrMissingPostURL   = errors.New("POST_SERVICE_URL is required for the review service")
)

var defaultAddrs = map[string]string{
	ServicePosts:    ":8081",
	ServiceReviews:  ":8082",
	ServiceComments: ":8083",
}

// Config holds the settings of one service process
type Config struct {
	Service string

	HTTPAddr string
	DBPath   string

	// AMQPURL selects RabbitMQ. Without it the posts and reviews services only
	// start when Standalone is set, and then drop their queue events.
	AMQPURL    string
	Standalone bool

	PostServiceURL    string
	HTTPClientTimeout time.Duration
	PostCacheSize     int
	PostCacheTTL      time.Duration

	RelayInterval time.Duration
	RelayRate     int

	LogLevel  string
	LogFormat string

	ShutdownTimeout time.Duration
}

// Load reads .env when present and then builds the config from the environment
func Load(service string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return FromEnv(service, os.LookupEnv)
}

// FromEnv builds the config using lookup. A variable prefixed with the upper-cased
// service name (POSTS_HTTP_ADDR) wins over the generic one (HTTP_ADDR).
func FromEnv(service string, lookup func(string) (string, bool)) (Config, error) {
	addr, ok := defaultAddrs[service]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownService, service)
	}
	env := envReader{prefix: strings.ToUpper(service) + "_", lookup: lookup}

	cfg := Config{
		Service:           service,
		HTTPAddr:          env.str("HTTP_ADDR", addr),
		DBPath:            env.str("DB_PATH", "data/"+service),
		AMQPURL:           env.str("AMQP_URL", ""),
		Standalone:        env.bool("STANDALONE", false),
		PostServiceURL:    strings.TrimRight(env.str("POST_SERVICE_URL", "http://localhost:8081"), "/"),
		HTTPClientTimeout: env.duration("HTTP_CLIENT_TIMEOUT", 5*time.Second),
		PostCacheSize:     env.int("POST_CACHE_SIZE", 1024),
		PostCacheTTL:      env.duration("POST_CACHE_TTL", time.Minute),
		RelayInterval:     env.duration("RELAY_INTERVAL", time.Second),
		RelayRate:         env.int("RELAY_RATE", 50),
		LogLevel:          env.str("LOG_LEVEL", "info"),
		LogFormat:         env.str("LOG_FORMAT", "text"),
		ShutdownTimeout:   env.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}
	if env.err != nil {
		return Config{}, env.err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the configuration for invalid values
func (c Config) Validate() error {
	if _, ok := defaultAddrs[c.Service]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownService, c.Service)
	}
	if c.HTTPClientTimeout <= 0 || c.ShutdownTimeout <= 0 || c.RelayInterval <= 0 {
		return ErrInvalidTimeout
	}
	if c.Service == ServiceReviews {
		if c.PostServiceURL == "" {
			return ErrMissingPostURL
		}
		if c.PostCacheSize <= 0 {
			return fmt.Errorf("%w: got %d", ErrInvalidCacheSize, c.PostCacheSize)
		}
	}
	return nil
}

type envReader struct {
	prefix string
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) get(name string) (string, bool) {
	if v, ok := e.lookup(e.prefix + name); ok {
		return v, true
	}
	return e.lookup(name)
}

func (e *envReader) str(name, def string) string {
	if v, ok := e.get(name); ok {
		return v
	}
	return def
}

func (e *envReader) int(name string, def int) int {
	v, ok := e.get(name)
	if !ok || v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return n
}

func (e *envReader) bool(name string, def bool) bool {
	v, ok := e.get(name)
	if !ok || v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return b
}

func (e *envReader) duration(name string, def time.Duration) time.Duration {
	v, ok := e.get(name)
	if !ok || v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil && e.err == nil {
		e.err = fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	return d
}
