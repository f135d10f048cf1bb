package config

import (
	"errors"

	"github.com/dmitrijs2005/leavekeeper/internal/envx"
	"github.com/dmitrijs2005/leavekeeper/internal/flagx"
)

func parseEnv(cfg *Config, args []string) error {
	env, err := envx.Load(flagx.EnvFile(args))
	if err != nil {
		return err
	}

	env.String(&cfg.ServerAddr, "SERVER_ADDR")
	env.String(&cfg.DBPath, "DB_PATH")
	env.String(&cfg.KVBackend, "KV_BACKEND")
	env.String(&cfg.RedisAddr, "REDIS_ADDR")
	env.String(&cfg.LogBackend, "LOG")

	return errors.Join(
		env.Int(&cfg.RedisDB, "REDIS_DB"),
		env.Duration(&cfg.DemoDelay, "DEMO_DELAY"),
		env.Duration(&cfg.RedirectDelay, "REDIRECT_DELAY"),
		env.Bool(&cfg.Debug, "DEBUG"),
	)
}
