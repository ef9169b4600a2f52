package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/watchkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
// Flags owned by other components are filtered out before parsing.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "log file path")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := flagx.ParseFiltered(fs); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
}
