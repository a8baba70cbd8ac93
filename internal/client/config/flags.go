package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/nexuschat/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-s string   backend subdomain
//	-r string   backend region
//	-d string   sqlite path for the persisted session
//	-i int      session refresh check interval (seconds)
//	-l string   log level
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-r", "-d", "-i", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.Subdomain, "s", cfg.Subdomain, "backend subdomain")
	fs.StringVar(&cfg.Region, "r", cfg.Region, "backend region")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "sqlite path for the persisted session")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level (debug, info, warn, error)")
	interval := fs.Int("i", int(cfg.RefreshCheckInterval.Seconds()), "session refresh check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.RefreshCheckInterval = time.Duration(*interval) * time.Second
}
