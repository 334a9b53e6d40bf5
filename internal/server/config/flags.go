package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
)

var flagNames = []string{"-a", "-m", "-d", "-s", "-t", "-l"}

// parseFlags overlays cfg with the short flags found in args.
//
//	-a string   gRPC bind address (e.g., ":50051")
//	-m string   metrics bind address (e.g., ":9090"), empty to disable
//	-d string   PostgreSQL DSN
//	-s string   JWT HMAC secret key
//	-t int      token validity, hours
//	-l string   log level
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.EndpointAddrGRPC, "a", cfg.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics address")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "secret key")
	validity := fs.Int("t", int(cfg.TokenValidity.Hours()), "token validity (in hours)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		panic(err)
	}

	cfg.TokenValidity = time.Duration(*validity) * time.Hour
}

func parseEnv(cfg *Config) {
	flagx.OverlayEnv(map[string]*string{
		"DIRECTORY_SECRET_KEY":   &cfg.SecretKey,
		"DIRECTORY_DATABASE_DSN": &cfg.DatabaseDSN,
	})
}
