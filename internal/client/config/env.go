package config

import (
	"errors"
	"io/fs"
	"os"

	"github.com/dmitrijs2005/nexuschat/internal/flagx"
	"github.com/joho/godotenv"
)

const (
	EnvSubdomain  = "NHOST_SUBDOMAIN"
	EnvRegion     = "NHOST_REGION"
	EnvAuthURL    = "NHOST_AUTH_URL"
	EnvGraphQLURL = "NHOST_GRAPHQL_URL"
	EnvDatabase   = "NEXUSCHAT_DB"
	EnvLogLevel   = "NEXUSCHAT_LOG_LEVEL"
)

// defaultEnvFile is loaded when no -env flag is given and the file exists.
const defaultEnvFile = ".env"

// parseEnv loads the dotenv file (never overriding variables already set in
// the process) and overlays cfg with the recognised variables. An explicitly
// requested dotenv file that cannot be read panics, like a broken JSON file.
func parseEnv(cfg *Config) {
	if path := flagx.EnvFileFlag(); path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setIfNotEmpty(&cfg.Subdomain, os.Getenv(EnvSubdomain))
	setIfNotEmpty(&cfg.Region, os.Getenv(EnvRegion))
	setIfNotEmpty(&cfg.AuthURL, os.Getenv(EnvAuthURL))
	setIfNotEmpty(&cfg.GraphQLURL, os.Getenv(EnvGraphQLURL))
	setIfNotEmpty(&cfg.DatabasePath, os.Getenv(EnvDatabase))
	setIfNotEmpty(&cfg.LogLevel, os.Getenv(EnvLogLevel))
}
