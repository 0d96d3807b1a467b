// Package s3 persists dataset snapshots as objects in an S3 compatible
// bucket (AWS S3 or MinIO).
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/YuDongZhang/InterviewQuestion/domain/core/aggregates"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence/codec"
	pkgerrors "github.com/YuDongZhang/InterviewQuestion/pkg/errors"
)

// Config holds explicit construction parameters.
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string // optional; if set enables custom endpoint (e.g. MinIO)
	AccessKeyID     string // optional (falls back to default credentials chain)
	SecretAccessKey string
	PathStyle       bool
	// MaxAttempts caps SDK retries. Zero keeps the SDK default.
	MaxAttempts int
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *http.Client
}

// Store keeps each dataset at <prefix><dataset>.json.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// New creates an S3 snapshot store from Config.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		if cfg.MaxAttempts > 0 {
			o.RetryMaxAttempts = cfg.MaxAttempts
		}
		if cfg.HTTPClient != nil {
			o.HTTPClient = cfg.HTTPClient
			o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// Key returns the object key of a dataset.
func (s *Store) Key(dataset valueobjects.DatasetName) string {
	return s.prefix + string(dataset) + ".json"
}

func (s *Store) Load(ctx context.Context, dataset valueobjects.DatasetName) (aggregates.Snapshot, error) {
	key := s.Key(dataset)
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &key})
	if err != nil {
		if isNotFound(err) {
			return aggregates.Snapshot{}, pkgerrors.NewNotFoundError("snapshot " + string(dataset))
		}
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	snap, err := codec.Decode(data)
	if err != nil {
		return aggregates.Snapshot{}, pkgerrors.NewPersistenceError("load", err)
	}
	return snap, nil
}

func (s *Store) Save(ctx context.Context, dataset valueobjects.DatasetName, snap aggregates.Snapshot) error {
	data, err := codec.Encode(snap)
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	key := s.Key(dataset)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &key,
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(codec.ContentType),
	})
	if err != nil {
		return pkgerrors.NewPersistenceError("save", err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	var respErr *smithyhttp.ResponseError
	return errors.As(err, &respErr) && respErr.HTTPStatusCode() == http.StatusNotFound
}
