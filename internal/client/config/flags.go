package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/cartkeeper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the cart API (default from Config)
//	-d string   path to the local cart database
//	-i int      online check interval in seconds
//
// Only the flags handled here are parsed, via flagx.FilterArgs, to avoid
// interference with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "base URL of the cart API")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local cart database")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
}
