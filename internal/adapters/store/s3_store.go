package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"go.uber.org/zap"
)

// S3Config contains configuration for the S3-backed store
type S3Config struct {
	Region   string
	Bucket   string
	Key      string // object key of the document, e.g. "gym-admin/store.json"
	Endpoint string // optional, for LocalStack/MinIO
}

// s3API is the subset of the S3 client the store uses
type s3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// s3Store keeps the flat document as a single S3 object
type s3Store struct {
	client s3API
	bucket string
	key    string
	logger *zap.Logger
}

// NewS3Store creates an S3-backed store using the default AWS credential chain
func NewS3Store(ctx context.Context, cfg S3Config, logger *zap.Logger) (ports.FlatStore, error) {
	if cfg.Bucket == "" || cfg.Key == "" {
		return nil, fmt.Errorf("s3 store requires bucket and key")
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("S3 store initialized",
		zap.String("bucket", cfg.Bucket),
		zap.String("key", cfg.Key),
	)

	return newS3Store(client, cfg.Bucket, cfg.Key, logger), nil
}

func newS3Store(client s3API, bucket, key string, logger *zap.Logger) *s3Store {
	return &s3Store{client: client, bucket: bucket, key: key, logger: logger}
}

// Read loads the whole document; a missing object is an empty store
func (s *s3Store) Read(ctx context.Context) (map[string]string, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		var nf *types.NotFound
		if errors.As(err, &nsk) || errors.As(err, &nf) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to get store object: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read store object: %w", err)
	}
	return decode(data)
}

// Write replaces the whole object
func (s *s3Store) Write(ctx context.Context, values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put store object: %w", err)
	}

	s.logger.Debug("Store written", zap.String("bucket", s.bucket), zap.String("key", s.key))
	return nil
}
