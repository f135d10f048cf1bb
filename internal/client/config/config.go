package config

import (
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
)

// Config holds runtime settings of the LeaveKeeper client.
type Config struct {
	ServerAddr    string
	DBPath        string
	KVBackend     string
	RedisAddr     string
	RedisDB       int
	DemoDelay     time.Duration
	RedirectDelay time.Duration
	LogBackend    string
	Debug         bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerAddr = "127.0.0.1:50051"
	c.DBPath = "leavekeeper.db"
	c.KVBackend = kvstore.BackendSQLite
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisDB = 0
	c.DemoDelay = 500 * time.Millisecond
	c.RedirectDelay = 2 * time.Second
	c.LogBackend = logging.BackendSlog
	c.Debug = false
}

// LoadConfig applies defaults, then the JSON file, the environment and the
// command-line flags found in args. Later sources take precedence.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}

// KVOptions selects the key-value backend described by c.
func (c *Config) KVOptions() kvstore.Options {
	return kvstore.Options{
		Backend:     c.KVBackend,
		SQLiteDSN:   c.DBPath,
		RedisAddr:   c.RedisAddr,
		RedisDB:     c.RedisDB,
		RedisPrefix: "leavekeeper:",
	}
}
