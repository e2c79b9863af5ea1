package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/schnitzeljagd/internal/flagx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/timex"
)

// JsonConfig is the on-disk shape of the CLI config.
type JsonConfig struct {
	ServerEndpointAddr  string         `json:"server_endpoint_addr"`
	OnlineCheckInterval timex.Duration `json:"online_check_interval"`
	FramesDir           string         `json:"frames_dir"`
	FrameInterval       timex.Duration `json:"frame_interval"`
	DatabasePath        string         `json:"database_path"`
	LogLevel            string         `json:"log_level"`
}

// parseJson overlays cfg with the file named by -c/-config. Empty or zero
// fields leave the current value alone. Read and decode errors panic.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath()
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

	if jc.ServerEndpointAddr != "" {
		cfg.ServerEndpointAddr = jc.ServerEndpointAddr
	}
	if jc.OnlineCheckInterval.Duration > 0 {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.FramesDir != "" {
		cfg.FramesDir = jc.FramesDir
	}
	if jc.FrameInterval.Duration > 0 {
		cfg.FrameInterval = jc.FrameInterval.Duration
	}
	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.LogLevel != "" {
		cfg.LogLevel = jc.LogLevel
	}
}
