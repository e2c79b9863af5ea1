// Command qrcodes prints the waypoint QR codes for the configured hunt.
// It reads the server config (public base URL and waypoint count) and
// writes waypoint_NN.png files into the directory given with -o.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/schnitzeljagd/internal/flagx"
	"github.com/dmitrijs2005/schnitzeljagd/internal/qrcodes"
	"github.com/dmitrijs2005/schnitzeljagd/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	fs := flag.NewFlagSet("qrcodes", flag.ExitOnError)
	out := fs.String("o", "qrcodes", "output directory")
	size := fs.Int("z", qrcodes.DefaultSize, "image size in pixels")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-o", "-z"}))

	paths, err := qrcodes.Write(*out, cfg.PublicBaseURL, cfg.Waypoints, *size)
	if err != nil {
		log.Fatalf("%v", err)
	}
	for _, p := range paths {
		fmt.Println(p)
	}
}
