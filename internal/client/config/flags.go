package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
)

var flagNames = []string{"-a", "-d", "-k", "-t", "-i", "-l", "-n", "-e", "-m", "-x"}

// parseFlags overlays cfg with the short flags found in args.
//
//	-a string   directory server address (grpc backend)
//	-d string   directory backend: grpc | airtable | memory
//	-k string   directory access token
//	-t int      directory request timeout, seconds
//	-i int      online check interval, seconds
//	-l string   log level
//	-n string   notification sink: log | s3
//	-e string   enricher endpoint (OpenAI-compatible base URL)
//	-m string   enricher models, comma separated, tried in order
//	-x string   credential hash algorithm: bcrypt | argon2id
func parseFlags(cfg *Config, args []string) {
	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DirectoryEndpoint, "a", cfg.DirectoryEndpoint, "directory server address")
	fs.StringVar(&cfg.DirectoryBackend, "d", cfg.DirectoryBackend, "directory backend")
	fs.StringVar(&cfg.DirectoryToken, "k", cfg.DirectoryToken, "directory access token")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "directory request timeout (in seconds)")
	interval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.NotificationSink, "n", cfg.NotificationSink, "notification sink")
	fs.StringVar(&cfg.EnricherEndpoint, "e", cfg.EnricherEndpoint, "enricher endpoint")
	models := fs.String("m", strings.Join(cfg.EnricherModels, ","), "enricher models")
	fs.StringVar(&cfg.HashAlgorithm, "x", cfg.HashAlgorithm, "credential hash algorithm")

	if err := fs.Parse(flagx.FilterArgs(args, flagNames)); err != nil {
		panic(err)
	}

	cfg.RequestTimeout = time.Duration(*timeout) * time.Second
	cfg.OnlineCheckInterval = time.Duration(*interval) * time.Second
	cfg.EnricherModels = splitList(*models)
}

func splitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseEnv overlays secrets that should not live in files or flags.
func parseEnv(cfg *Config) {
	flagx.OverlayEnv(map[string]*string{
		"PORTAL_DIRECTORY_TOKEN": &cfg.DirectoryToken,
		"AIRTABLE_TOKEN":         &cfg.AirtableToken,
		"AIRTABLE_BASE_ID":       &cfg.AirtableBaseID,
		"AIRTABLE_TABLE_NAME":    &cfg.AirtableTable,
		"ENRICHER_API_KEY":       &cfg.EnricherAPIKey,
		"S3_ROOT_USER":           &cfg.S3RootUser,
		"S3_ROOT_PASSWORD":       &cfg.S3RootPassword,
	})
}
