package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/memberportal/internal/flagx"
	"github.com/dmitrijs2005/memberportal/internal/timex"
)

type jsonColumns struct {
	Email          string `json:"email"`
	CredentialHash string `json:"credential_hash"`
	GivenName      string `json:"given_name"`
	FamilyName     string `json:"family_name"`
	Phone          string `json:"phone"`
}

// JsonConfig is the on-disk shape of the client configuration. Only keys
// present in the file override the current values.
type JsonConfig struct {
	DirectoryBackend  *string         `json:"directory_backend"`
	DirectoryEndpoint *string         `json:"directory_endpoint"`
	DirectoryToken    *string         `json:"directory_token"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`

	AirtableBaseURL *string      `json:"airtable_base_url"`
	AirtableBaseID  *string      `json:"airtable_base_id"`
	AirtableTable   *string      `json:"airtable_table"`
	AirtableToken   *string      `json:"airtable_token"`
	AirtableColumns *jsonColumns `json:"airtable_columns"`

	HashAlgorithm *string `json:"hash_algorithm"`

	EnricherEndpoint *string         `json:"enricher_endpoint"`
	EnricherAPIKey   *string         `json:"enricher_api_key"`
	EnricherModels   []string        `json:"enricher_models"`
	EnricherTimeout  *timex.Duration `json:"enricher_timeout"`

	NotificationSink *string         `json:"notification_sink"`
	NotifyTimeout    *timex.Duration `json:"notify_timeout"`
	S3RootUser       *string         `json:"s3_root_user"`
	S3RootPassword   *string         `json:"s3_root_password"`
	S3Bucket         *string         `json:"s3_bucket"`
	S3Region         *string         `json:"s3_region"`
	S3BaseEndpoint   *string         `json:"s3_base_endpoint"`

	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	LogLevel            *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file named by -c/-config, if any.
// It panics on unreadable or invalid files.
func parseJson(cfg *Config) {
	path := flagx.JsonConfigFlags()
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
	jc.apply(cfg)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func (jc *JsonConfig) apply(cfg *Config) {
	setString(&cfg.DirectoryBackend, jc.DirectoryBackend)
	setString(&cfg.DirectoryEndpoint, jc.DirectoryEndpoint)
	setString(&cfg.DirectoryToken, jc.DirectoryToken)
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}

	setString(&cfg.AirtableBaseURL, jc.AirtableBaseURL)
	setString(&cfg.AirtableBaseID, jc.AirtableBaseID)
	setString(&cfg.AirtableTable, jc.AirtableTable)
	setString(&cfg.AirtableToken, jc.AirtableToken)
	if c := jc.AirtableColumns; c != nil {
		cfg.AirtableColumns = AirtableColumns{
			Email:          c.Email,
			CredentialHash: c.CredentialHash,
			GivenName:      c.GivenName,
			FamilyName:     c.FamilyName,
			Phone:          c.Phone,
		}
	}

	setString(&cfg.HashAlgorithm, jc.HashAlgorithm)

	setString(&cfg.EnricherEndpoint, jc.EnricherEndpoint)
	setString(&cfg.EnricherAPIKey, jc.EnricherAPIKey)
	if jc.EnricherModels != nil {
		cfg.EnricherModels = jc.EnricherModels
	}
	if jc.EnricherTimeout != nil {
		cfg.EnricherTimeout = jc.EnricherTimeout.Duration
	}

	setString(&cfg.NotificationSink, jc.NotificationSink)
	if jc.NotifyTimeout != nil {
		cfg.NotifyTimeout = jc.NotifyTimeout.Duration
	}
	setString(&cfg.S3RootUser, jc.S3RootUser)
	setString(&cfg.S3RootPassword, jc.S3RootPassword)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3BaseEndpoint, jc.S3BaseEndpoint)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	setString(&cfg.LogLevel, jc.LogLevel)
}
