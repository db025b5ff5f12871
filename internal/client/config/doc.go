// Package config loads runtime configuration for the LogKeeper CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config (JSON, or YAML for
//     .yaml/.yml files).
//  3. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the LogKeeper REST server
//	-i int      online status check interval (seconds)
//	-t int      per-request timeout (seconds)
//	-n int      rows per page
//	-l string   log level (debug, info, warn, error)
//
// # File schema
//
// Durations accept strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "http://localhost:3002",
//	  "online_check_interval": "3s",
//	  "request_timeout": "10s",
//	  "page_size": 10,
//	  "log_level": "warn"
//	}
package config
