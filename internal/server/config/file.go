package config

import (
	"github.com/dmitrijs2005/logkeeper/internal/filex"
	"github.com/dmitrijs2005/logkeeper/internal/flagx"
	"github.com/dmitrijs2005/logkeeper/internal/timex"
)

// FileConfig is the on-disk shape of the server configuration (JSON or YAML).
// Durations accept "5s" or integer nanoseconds.
type FileConfig struct {
	EndpointAddrHTTP string         `json:"endpoint_addr_http" yaml:"endpoint_addr_http"`
	EndpointAddrGRPC string         `json:"endpoint_addr_grpc" yaml:"endpoint_addr_grpc"`
	StoreDriver      string         `json:"store_driver" yaml:"store_driver"`
	DatabaseDSN      string         `json:"database_dsn" yaml:"database_dsn"`
	Seed             bool           `json:"seed" yaml:"seed"`
	ShutdownTimeout  timex.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	S3RootUser       string         `json:"s3_root_user" yaml:"s3_root_user"`
	S3RootPassword   string         `json:"s3_root_password" yaml:"s3_root_password"`
	S3Bucket         string         `json:"s3_bucket" yaml:"s3_bucket"`
	S3Region         string         `json:"s3_region" yaml:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint" yaml:"s3_base_endpoint"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays values from the file given with -c/-config. Keys
// missing from the file keep their current value. Read or decode errors
// panic.
func parseFile(config *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	c := &FileConfig{
		EndpointAddrHTTP: config.EndpointAddrHTTP,
		EndpointAddrGRPC: config.EndpointAddrGRPC,
		StoreDriver:      config.StoreDriver,
		DatabaseDSN:      config.DatabaseDSN,
		Seed:             config.Seed,
		ShutdownTimeout:  timex.Duration{Duration: config.ShutdownTimeout},
		S3RootUser:       config.S3RootUser,
		S3RootPassword:   config.S3RootPassword,
		S3Bucket:         config.S3Bucket,
		S3Region:         config.S3Region,
		S3BaseEndpoint:   config.S3BaseEndpoint,
		LogLevel:         config.LogLevel,
	}

	if err := filex.DecodeConfig(path, c); err != nil {
		panic(err)
	}

	config.EndpointAddrHTTP = c.EndpointAddrHTTP
	config.EndpointAddrGRPC = c.EndpointAddrGRPC
	config.StoreDriver = c.StoreDriver
	config.DatabaseDSN = c.DatabaseDSN
	config.Seed = c.Seed
	config.ShutdownTimeout = c.ShutdownTimeout.Duration
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
	config.LogLevel = c.LogLevel
}
