package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/leavekeeper/internal/flagx"
	"github.com/dmitrijs2005/leavekeeper/internal/timex"
)

// JsonConfig is the on-disk shape. Absent fields keep their earlier value.
type JsonConfig struct {
	ServerAddr    *string         `json:"server_addr"`
	DBPath        *string         `json:"db_path"`
	KVBackend     *string         `json:"kv_backend"`
	RedisAddr     *string         `json:"redis_addr"`
	RedisDB       *int            `json:"redis_db"`
	DemoDelay     *timex.Duration `json:"demo_delay"`
	RedirectDelay *timex.Duration `json:"redirect_delay"`
	LogBackend    *string         `json:"log"`
	Debug         *bool           `json:"debug"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	set(&cfg.ServerAddr, jc.ServerAddr)
	set(&cfg.DBPath, jc.DBPath)
	set(&cfg.KVBackend, jc.KVBackend)
	set(&cfg.RedisAddr, jc.RedisAddr)
	set(&cfg.RedisDB, jc.RedisDB)
	set(&cfg.LogBackend, jc.LogBackend)
	set(&cfg.Debug, jc.Debug)
	if jc.DemoDelay != nil {
		cfg.DemoDelay = jc.DemoDelay.Duration
	}
	if jc.RedirectDelay != nil {
		cfg.RedirectDelay = jc.RedirectDelay.Duration
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
