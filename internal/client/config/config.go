// Package config holds the portal client configuration: defaults, an
// optional JSON file, command-line flags and environment secrets, applied
// in that order.
package config

import (
	"os"
	"time"
)

// AirtableColumns names the Airtable columns holding each member field.
type AirtableColumns struct {
	Email          string
	CredentialHash string
	GivenName      string
	FamilyName     string
	Phone          string
}

// Config holds runtime settings for the portal client.
//
// DirectoryBackend selects where member records live: "grpc" (the
// self-hosted directory server at DirectoryEndpoint), "airtable", or
// "memory" (process-local, for demos). NotificationSink is "log" or "s3".
type Config struct {
	DirectoryBackend  string
	DirectoryEndpoint string
	DirectoryToken    string
	RequestTimeout    time.Duration

	AirtableBaseURL string
	AirtableBaseID  string
	AirtableTable   string
	AirtableToken   string
	AirtableColumns AirtableColumns

	HashAlgorithm string

	EnricherEndpoint string
	EnricherAPIKey   string
	EnricherModels   []string
	EnricherTimeout  time.Duration

	NotificationSink string
	NotifyTimeout    time.Duration
	S3RootUser       string
	S3RootPassword   string
	S3Bucket         string
	S3Region         string
	S3BaseEndpoint   string

	OnlineCheckInterval time.Duration
	LogLevel            string
}

// LoadDefaults populates c with development defaults.
func (c *Config) LoadDefaults() {
	c.DirectoryBackend = "grpc"
	c.DirectoryEndpoint = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second

	c.AirtableBaseURL = "https://api.airtable.com/v0"
	c.AirtableTable = "Utilisateurs"
	c.AirtableColumns = AirtableColumns{
		Email:          "Email",
		CredentialHash: "MotDePasse",
		GivenName:      "Prenom",
		FamilyName:     "Nom",
		Phone:          "Telephone",
	}

	c.HashAlgorithm = "bcrypt"

	c.EnricherModels = []string{"gpt-4o-mini"}
	c.EnricherTimeout = 8 * time.Second

	c.NotificationSink = "log"
	c.NotifyTimeout = 5 * time.Second
	c.S3Bucket = "notifications"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"

	c.OnlineCheckInterval = 3 * time.Second
	c.LogLevel = "info"
}

// LoadConfig applies defaults, then the JSON file named by -c/-config, then
// flags, then secrets from the environment.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg, os.Args[1:])
	parseEnv(cfg)
	return cfg
}
