// Package config loads runtime configuration for the chat client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment (see parseEnv): a dotenv file (-env, or ./.env when present)
//     is loaded first with godotenv, then process variables are read.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Environment variables
//
//	NHOST_SUBDOMAIN      backend project subdomain
//	NHOST_REGION         backend project region
//	NHOST_AUTH_URL       explicit identity endpoint
//	NHOST_GRAPHQL_URL    explicit GraphQL endpoint
//	NEXUSCHAT_DB         sqlite path for the persisted session
//	NEXUSCHAT_LOG_LEVEL  debug | info | warn | error
//
// Supported flags
//
//	-s string   backend subdomain
//	-r string   backend region
//	-d string   sqlite path for the persisted session
//	-i int      session refresh check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
//	{
//	  "subdomain": "abcdefgh",
//	  "region": "eu-central-1",
//	  "auth_url": "",
//	  "graphql_url": "",
//	  "database_path": "/home/me/.config/nexuschat/session.db",
//	  "refresh_check_interval": "10s",
//	  "log_level": "info"
//	}
package config
