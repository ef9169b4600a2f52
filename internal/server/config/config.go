// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the watch-list server.
//
// Fields:
//   - EndpointAddrGRPC: bind address for the public gRPC endpoint.
//   - DatabaseDriver: "pgx" for PostgreSQL or "sqlite" for an embedded file.
//   - DatabaseDSN: connection string understood by DatabaseDriver.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use test defaults in prod.
//   - SessionValidityDuration: session token lifetime.
//   - AccountUsername / AccountPassword: the account seeded on start-up.
//   - S3Bucket: snapshot bucket; empty disables snapshots.
//   - S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey: object storage settings.
type Config struct {
	EndpointAddrGRPC        string
	DatabaseDriver          string
	DatabaseDSN             string
	SecretKey               string
	SessionValidityDuration time.Duration
	AccountUsername         string
	AccountPassword         string
	S3Bucket                string
	S3Region                string
	S3BaseEndpoint          string
	S3AccessKey             string
	S3SecretKey             string
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "watchkeeper.db"
	c.SecretKey = "secretKey"
	c.SessionValidityDuration = 60 * time.Minute
	c.AccountUsername = "admin"
	c.AccountPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.S3AccessKey = ""
	c.S3SecretKey = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}

// SnapshotsEnabled reports whether a snapshot bucket is configured.
func (c *Config) SnapshotsEnabled() bool {
	return c.S3Bucket != ""
}
