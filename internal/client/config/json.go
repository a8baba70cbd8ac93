package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/nexuschat/internal/flagx"
	"github.com/dmitrijs2005/nexuschat/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Empty fields
// leave the corresponding Config value untouched.
type JsonConfig struct {
	Subdomain            string         `json:"subdomain"`
	Region               string         `json:"region"`
	AuthURL              string         `json:"auth_url"`
	GraphQLURL           string         `json:"graphql_url"`
	DatabasePath         string         `json:"database_path"`
	RefreshCheckInterval timex.Duration `json:"refresh_check_interval"`
	LogLevel             string         `json:"log_level"`
}

// parseJson overlays cfg with values from the file named by -c/-config.
// It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setIfNotEmpty(&cfg.Subdomain, jc.Subdomain)
	setIfNotEmpty(&cfg.Region, jc.Region)
	setIfNotEmpty(&cfg.AuthURL, jc.AuthURL)
	setIfNotEmpty(&cfg.GraphQLURL, jc.GraphQLURL)
	setIfNotEmpty(&cfg.DatabasePath, jc.DatabasePath)
	setIfNotEmpty(&cfg.LogLevel, jc.LogLevel)
	if jc.RefreshCheckInterval.Duration > 0 {
		cfg.RefreshCheckInterval = jc.RefreshCheckInterval.Duration
	}
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
