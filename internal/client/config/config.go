package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/filex"
)

// Config holds runtime settings for the chat client.
//
// Fields:
//   - Subdomain / Region: the two deployment parameters selecting which backend
//     project the identity and data collaborators target.
//   - AuthURL / GraphQLURL: optional explicit endpoints overriding the ones
//     derived from Subdomain and Region (self-hosted or test backends).
//   - DatabasePath: sqlite file holding the persisted refresh token.
//   - RefreshCheckInterval: how often the session refresher wakes up.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Subdomain            string
	Region               string
	AuthURL              string
	GraphQLURL           string
	DatabasePath         string
	RefreshCheckInterval time.Duration
	LogLevel             string
}

// LoadDefaults populates c with defaults pointing at a local backend.
func (c *Config) LoadDefaults() {
	c.Subdomain = "local"
	c.Region = ""
	c.DatabasePath = filex.DefaultDataPath("session.db")
	c.RefreshCheckInterval = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment (.env and process variables) and
// command-line flags. Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// AuthEndpoint is the base URL of the identity collaborator.
func (c *Config) AuthEndpoint() string {
	if c.AuthURL != "" {
		return strings.TrimRight(c.AuthURL, "/")
	}
	return c.serviceURL("auth")
}

// GraphQLEndpoint is the HTTP URL of the data collaborator.
func (c *Config) GraphQLEndpoint() string {
	if c.GraphQLURL != "" {
		return strings.TrimRight(c.GraphQLURL, "/")
	}
	return c.serviceURL("graphql")
}

// GraphQLWSEndpoint is the websocket URL used for live subscriptions.
func (c *Config) GraphQLWSEndpoint() string {
	u := c.GraphQLEndpoint()
	switch {
	case strings.HasPrefix(u, "https://"):
		return "wss://" + strings.TrimPrefix(u, "https://")
	case strings.HasPrefix(u, "http://"):
		return "ws://" + strings.TrimPrefix(u, "http://")
	default:
		return u
	}
}

func (c *Config) serviceURL(service string) string {
	switch {
	case c.Subdomain == "local":
		return fmt.Sprintf("https://local.%s.nhost.run/v1", service)
	case c.Region == "":
		return fmt.Sprintf("https://%s.%s.nhost.run/v1", c.Subdomain, service)
	default:
		return fmt.Sprintf("https://%s.%s.%s.nhost.run/v1", c.Subdomain, service, c.Region)
	}
}
