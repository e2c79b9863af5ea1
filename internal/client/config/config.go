package config

import "time"

// Config holds runtime settings for the scanner CLI.
//
// Intervals are time.Duration values; the flag forms take seconds for
// OnlineCheckInterval and milliseconds for FrameInterval.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	FramesDir           string
	FrameInterval       time.Duration
	DatabasePath        string
	LogLevel            string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 5 * time.Second
	c.FramesDir = "frames"
	c.FrameInterval = 250 * time.Millisecond
	c.DatabasePath = "schnitzeljagd.db"
	c.LogLevel = "warn"
}

// LoadConfig applies defaults, then the JSON file (if given), then flags.
// Later sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
