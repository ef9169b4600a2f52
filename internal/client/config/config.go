package config

import "time"

// Config holds runtime settings for the watch-list CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the store's gRPC endpoint.
//   - LogFile: where diagnostic logs go, so they stay out of the REPL.
//   - RequestTimeout: upper bound for a single store call.
type Config struct {
	ServerEndpointAddr string
	LogFile            string
	RequestTimeout     time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.LogFile = "watchkeeper.log"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
