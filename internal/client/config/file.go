package config

import (
	"github.com/dmitrijs2005/logkeeper/internal/filex"
	"github.com/dmitrijs2005/logkeeper/internal/flagx"
	"github.com/dmitrijs2005/logkeeper/internal/timex"
)

// FileConfig is the on-disk shape of the client configuration.
type FileConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr" yaml:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval" yaml:"online_check_interval"`
	RequestTimeout      timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	PageSize            int            `json:"page_size" yaml:"page_size"`
	LogLevel            string         `json:"log_level" yaml:"log_level"`
}

// parseFile overlays Config with the file named by -c/-config. Keys the
// file leaves out keep their current value. Errors panic.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag()
	if path == "" {
		return
	}

	fc := &FileConfig{
		ServerEndpointAddr:  cfg.ServerEndpointAddr,
		OnlineCheckInterval: timex.Duration{Duration: cfg.OnlineCheckInterval},
		RequestTimeout:      timex.Duration{Duration: cfg.RequestTimeout},
		PageSize:            cfg.PageSize,
		LogLevel:            cfg.LogLevel,
	}

	if err := filex.DecodeConfig(path, fc); err != nil {
		panic(err)
	}

	cfg.ServerEndpointAddr = fc.ServerEndpointAddr
	cfg.OnlineCheckInterval = fc.OnlineCheckInterval.Duration
	cfg.RequestTimeout = fc.RequestTimeout.Duration
	cfg.PageSize = fc.PageSize
	cfg.LogLevel = fc.LogLevel
}
