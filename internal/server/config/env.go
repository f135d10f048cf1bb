package config

import (
	"errors"

	"github.com/dmitrijs2005/leavekeeper/internal/envx"
	"github.com/dmitrijs2005/leavekeeper/internal/flagx"
)

// parseEnv reads LEAVEKEEPER_* variables, from the process environment or the
// .env file.
func parseEnv(cfg *Config, args []string) error {
	env, err := envx.Load(flagx.EnvFile(args))
	if err != nil {
		return err
	}

	env.String(&cfg.EndpointAddrGRPC, "GRPC_ADDR")
	env.String(&cfg.DatabaseDSN, "DATABASE_DSN")
	env.String(&cfg.SecretKey, "SECRET_KEY")
	env.String(&cfg.S3RootUser, "S3_ROOT_USER")
	env.String(&cfg.S3RootPassword, "S3_ROOT_PASSWORD")
	env.String(&cfg.S3Bucket, "S3_BUCKET")
	env.String(&cfg.S3Region, "S3_REGION")
	env.String(&cfg.S3BaseEndpoint, "S3_BASE_ENDPOINT")
	env.String(&cfg.LogBackend, "LOG")

	return errors.Join(
		env.Duration(&cfg.AccessTokenValidityDuration, "ACCESS_TOKEN_TTL"),
		env.Duration(&cfg.PresignValidityDuration, "PRESIGN_TTL"),
		env.Bool(&cfg.Debug, "DEBUG"),
	)
}
