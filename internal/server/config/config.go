// Package config handles configuration for the server component,
// including defaults, config file overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the LogKeeper server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the REST API.
//   - EndpointAddrGRPC: bind address for the gRPC health endpoint.
//   - StoreDriver / DatabaseDSN: record store backend ("memory", "postgres", "sqlite").
//   - Seed: insert the initial record when the store is empty.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
//   - S3RootUser / S3RootPassword: credentials for the S3-compatible backend.
//   - S3Bucket / S3Region / S3BaseEndpoint: export storage; an empty bucket disables export.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	EndpointAddrHTTP string
	EndpointAddrGRPC string
	StoreDriver      string
	DatabaseDSN      string
	Seed             bool
	ShutdownTimeout  time.Duration
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string
	LogLevel         string
}

// LoadDefaults populates Config with development defaults: in-memory store,
// seeding on, export off.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3002"
	c.EndpointAddrGRPC = ":50051"
	c.StoreDriver = "memory"
	c.DatabaseDSN = ""
	c.Seed = true
	c.ShutdownTimeout = 5 * time.Second
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = ""
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
	c.LogLevel = "info"
}

// ExportEnabled reports whether an export bucket is configured.
func (c *Config) ExportEnabled() bool {
	return c.S3Bucket != ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
