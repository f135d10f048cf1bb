// Package config loads runtime configuration for the LeaveKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected with -c or -config.
//  3. LEAVEKEEPER_* variables from the environment, then from a dotenv file
//     (-env path, or ./.env when present).
//  4. Command-line flags.
//
// Supported flags
//
//	-a string       address:port of the leave service
//	-d string       local SQLite database file
//	-k string       key-value backend: sqlite (default) or redis
//	-r string       redis address
//	-delay int      simulated delay of the demo accounts, ms
//	-redirect int   delay before leaving the submit screen, ms
//	-log string     slog or zerolog
//	-debug          debug logging
//
// # JSON schema
//
// Delays accept "500ms"-style strings or integer nanoseconds:
//
//	{
//	  "server_addr": "127.0.0.1:50051",
//	  "db_path": "leavekeeper.db",
//	  "kv_backend": "sqlite",
//	  "redis_addr": "127.0.0.1:6379",
//	  "demo_delay": "500ms",
//	  "redirect_delay": "2s",
//	  "log": "slog"
//	}
//
// # Environment
//
// LEAVEKEEPER_SERVER_ADDR, LEAVEKEEPER_DB_PATH, LEAVEKEEPER_KV_BACKEND,
// LEAVEKEEPER_REDIS_ADDR, LEAVEKEEPER_REDIS_DB, LEAVEKEEPER_DEMO_DELAY,
// LEAVEKEEPER_REDIRECT_DELAY (milliseconds or a duration), LEAVEKEEPER_LOG,
// LEAVEKEEPER_DEBUG.
package config
