package sideeffects

import (
	"context"
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/memberportal/internal/logging"
	"github.com/oklog/ulid/v2"
)

// LogSink writes each notification through the structured logger.
type LogSink struct {
	log logging.Logger
}

func NewLogSink(log logging.Logger) *LogSink {
	if log == nil {
		log = logging.Nop()
	}
	return &LogSink{log: log}
}

func (s *LogSink) Send(ctx context.Context, message string) error {
	s.log.Info(ctx, "notification", "message", message)
	return nil
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig  = config.LoadDefaultConfig
	newS3ClientFromConfig = s3.NewFromConfig
	nowFn                 = time.Now
)

// S3Options configures an S3-compatible bucket (MinIO in development).
type S3Options struct {
	Region       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
	Bucket       string
}

// S3Sink stores each notification as a text object in a bucket, acting as
// an outbox for whatever delivers them further.
type S3Sink struct {
	client objectPutter
	bucket string
}

func NewS3Sink(ctx context.Context, o S3Options) (*S3Sink, error) {
	if o.Bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(o.AccessKey, o.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 sink: load config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(so *s3.Options) {
		if o.BaseEndpoint != "" {
			so.BaseEndpoint = aws.String(o.BaseEndpoint)
			so.UsePathStyle = true
		}
	})
	return &S3Sink{client: client, bucket: o.Bucket}, nil
}

// NotificationKey returns a fresh object key for a notification created at t.
func NotificationKey(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("notifications/%04d/%02d/%02d/%s.txt",
		t.Year(), t.Month(), t.Day(), ulid.MustNew(ulid.Timestamp(t), rand.Reader))
}

func (s *S3Sink) Send(ctx context.Context, message string) error {
	key := NotificationKey(nowFn())
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        strings.NewReader(message),
		ContentType: aws.String("text/plain; charset=utf-8"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", key, err)
	}
	return nil
}
