//go:build !noredis

package redis

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/carpi/carpi-settings/pkg/settings"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Defaults for the discrete connection parameters
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 6379
	DefaultDB   = 0
)

// Mode identifies how a Store obtained its client
type Mode int

const (
	// ModeClient reuses a caller-supplied client
	ModeClient Mode = iota
	// ModeURL connects using a redis:// URL
	ModeURL
	// ModeParams connects using host, port, database index and password
	ModeParams
)

func (m Mode) String() string {
	switch m {
	case ModeClient:
		return "client"
	case ModeURL:
		return "url"
	case ModeParams:
		return "params"
	default:
		return "unknown"
	}
}

// Config selects one of three mutually exclusive ways to reach Redis. They are
// tried in order and the first non-empty one wins: Client, then URL, then the
// discrete Host/Port/DB/Password fields.
type Config struct {
	// Client is an existing client to reuse. The store never closes it.
	Client redis.UniversalClient

	// URL is a connection string such as redis://:password@localhost:6379/1.
	// A bare host:port/db is accepted as well.
	URL string

	// Zero values fall back to DefaultHost, DefaultPort, DefaultDB and no password.
	Host     string
	Port     int
	DB       int
	Password string
}

// Store is a Redis-backed implementation of settings.ConfigStore.
//
// Every operation is a single round trip. Failures are returned to the
// caller; nothing is retried or failed over at this layer.
type Store struct {
	client redis.UniversalClient
	owned  bool
	mode   Mode
	log    *zap.SugaredLogger
}

var _ settings.ConfigStore = (*Store)(nil)

// New creates a Redis-backed store. No connection is made until the first
// operation; use Ping to check reachability up front.
func New(cfg Config, opts ...settings.Option) (*Store, error) {
	o := settings.ApplyOptions(opts...)
	s := &Store{log: o.NamedLogger(describe(cfg))}

	switch {
	case cfg.Client != nil:
		s.client = cfg.Client
		s.mode = ModeClient
	case cfg.URL != "":
		opt, err := parseURL(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		s.client = redis.NewClient(opt)
		s.owned = true
		s.mode = ModeURL
	default:
		s.client = redis.NewClient(paramOptions(cfg))
		s.owned = true
		s.mode = ModeParams
	}

	s.log.Debugw("New Redis configuration setup", "mode", s.mode.String())
	return s, nil
}

// describe derives the logger name: the URL (without password) when given,
// otherwise "Redis <host>".
func describe(cfg Config) string {
	if cfg.URL != "" {
		if u, err := url.Parse(cfg.URL); err == nil && u.Host != "" {
			return u.Redacted()
		}
		return cfg.URL
	}
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	return "Redis " + host
}

func paramOptions(cfg Config) *redis.Options {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	return &redis.Options{
		Addr:     net.JoinHostPort(host, strconv.Itoa(port)),
		DB:       cfg.DB,
		Password: cfg.Password,
	}
}

// parseURL accepts redis:// and rediss:// URLs, falling back to a bare
// host:port/db form.
func parseURL(redisURL string) (*redis.Options, error) {
	opt, err := redis.ParseURL(redisURL)
	if err == nil {
		return opt, nil
	}

	u, parseErr := url.Parse("redis://" + redisURL)
	if parseErr != nil || u.Host == "" {
		return nil, err // Return original error
	}

	db := DefaultDB
	if u.Path != "" && u.Path != "/" {
		dbNum, dbErr := strconv.Atoi(u.Path[1:])
		if dbErr != nil {
			return nil, fmt.Errorf("invalid database number %q: %w", u.Path[1:], dbErr)
		}
		db = dbNum
	}

	opt = &redis.Options{
		Addr: u.Host,
		DB:   db,
	}
	if u.User != nil {
		if password, hasPassword := u.User.Password(); hasPassword {
			opt.Password = password
		}
	}
	return opt, nil
}

// Mode reports which construction path was taken
func (s *Store) Mode() Mode {
	return s.mode
}

// Client returns the underlying Redis client
func (s *Store) Client() redis.UniversalClient {
	return s.client
}

// Lookup issues a GET. A missing key and an empty value both count as absent.
func (s *Store) Lookup(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, wrapError(err)
	}
	if v == "" {
		return "", false, nil
	}
	return v, true, nil
}

func (s *Store) ReadValue(ctx context.Context, key string, def string) (string, error) {
	s.log.Debugw("Reading value", "key", key)
	return settings.ReadValue(ctx, s, key, def)
}

func (s *Store) ReadIntValue(ctx context.Context, key string, def int) (int, error) {
	s.log.Debugw("Reading value as int", "key", key)
	return settings.ReadInt(ctx, s, key, def)
}

func (s *Store) ReadFloatValue(ctx context.Context, key string, def float64) (float64, error) {
	s.log.Debugw("Reading value as float", "key", key)
	return settings.ReadFloat(ctx, s, key, def)
}

func (s *Store) ReadBoolValue(ctx context.Context, key string, def bool) (bool, error) {
	s.log.Debugw("Reading value as bool", "key", key)
	return settings.ReadBool(ctx, s, key, def)
}

// WriteValue issues a SET of the stringified value without expiry
func (s *Store) WriteValue(ctx context.Context, key string, value any) error {
	s.log.Debugw("Writing value", "key", key)
	v, err := settings.EncodeValue(key, value)
	if err != nil {
		return err
	}
	return wrapError(s.client.Set(ctx, key, v, 0).Err())
}

// SaveConfig issues a blocking SAVE so the server snapshots its dataset to disk
func (s *Store) SaveConfig(ctx context.Context) error {
	s.log.Info("Issuing SAVE")
	if err := s.client.Save(ctx).Err(); err != nil {
		return fmt.Errorf("redis SAVE: %w", wrapError(err))
	}
	s.log.Info("SAVE completed")
	return nil
}

// Ping checks if Redis is reachable
func (s *Store) Ping(ctx context.Context) error {
	return wrapError(s.client.Ping(ctx).Err())
}

// Close closes the client if the store created it
func (s *Store) Close() error {
	if !s.owned {
		return nil
	}
	return s.client.Close()
}
