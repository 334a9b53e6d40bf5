package sideeffects

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/memberportal/internal/client/config"
	"github.com/dmitrijs2005/memberportal/internal/logging"
)

// Sink names accepted in configuration.
const (
	SinkLog = "log"
	SinkS3  = "s3"
)

// New builds the dispatcher described by cfg. Without an enricher endpoint
// every notification carries FallbackCompliment.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (*Dispatcher, error) {
	var enricher Enricher
	if cfg.EnricherEndpoint != "" {
		e, err := NewHTTPEnricher(cfg.EnricherEndpoint, cfg.EnricherAPIKey, cfg.EnricherModels, cfg.EnricherTimeout, nil)
		if err != nil {
			return nil, err
		}
		enricher = e
	}

	var sink NotificationSink
	switch cfg.NotificationSink {
	case SinkLog, "":
		sink = NewLogSink(log)
	case SinkS3:
		s, err := NewS3Sink(ctx, S3Options{
			Region:       cfg.S3Region,
			AccessKey:    cfg.S3RootUser,
			SecretKey:    cfg.S3RootPassword,
			BaseEndpoint: cfg.S3BaseEndpoint,
			Bucket:       cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		sink = s
	default:
		return nil, fmt.Errorf("unknown notification sink %q", cfg.NotificationSink)
	}

	return NewDispatcher(enricher, sink, log, Options{
		EnrichTimeout: cfg.EnricherTimeout,
		NotifyTimeout: cfg.NotifyTimeout,
	}), nil
}
