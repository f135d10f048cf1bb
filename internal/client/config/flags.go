package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/flagx"
)

// parseFlags applies the client's own flags from args; anything else on the
// command line is ignored.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-k", "-r", "-delay", "-redirect", "-log", "-debug"})

	fs := flag.NewFlagSet("client", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerAddr, "a", cfg.ServerAddr, "address and port of the leave service")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "local SQLite database file")
	fs.StringVar(&cfg.KVBackend, "k", cfg.KVBackend, "key-value backend: sqlite or redis")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "redis address for -k redis")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "logger: slog or zerolog")
	fs.BoolVar(&cfg.Debug, "debug", cfg.Debug, "debug logging")
	delay := fs.Int("delay", int(cfg.DemoDelay.Milliseconds()), "simulated delay of demo accounts (ms)")
	redirect := fs.Int("redirect", int(cfg.RedirectDelay.Milliseconds()), "redirect delay after submit (ms)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.DemoDelay = time.Duration(*delay) * time.Millisecond
	cfg.RedirectDelay = time.Duration(*redirect) * time.Millisecond
	return nil
}
