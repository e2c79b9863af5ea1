package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/schnitzeljagd/internal/flagx"
)

// parseFlags overlays the short flags listed in the package doc. Only those
// flags are taken from os.Args so -c/-config and unknown flags pass through.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-f", "-i", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the hunt server")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database file")
	fs.StringVar(&cfg.FramesDir, "f", cfg.FramesDir, "camera frames directory")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	frameInterval := fs.Int("r", int(cfg.FrameInterval.Milliseconds()), "frame decode interval (in milliseconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	cfg.FrameInterval = time.Duration(*frameInterval) * time.Millisecond
}
