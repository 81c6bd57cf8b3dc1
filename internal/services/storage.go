package services

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/semwett0301/rcruit-flow-sub001/internal/config"
	"github.com/semwett0301/rcruit-flow-sub001/internal/models"
)

// ObjectAPI is the subset of the S3 client the gateway uses.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// StorageService is an opaque blob store. An empty bucket means the configured default.
type StorageService interface {
	Put(ctx context.Context, doc *models.UploadedDocument, bucket string) (string, error)
	Get(ctx context.Context, key string, bucket string) ([]byte, error)
	Bucket() string
}

type storageService struct {
	client        ObjectAPI
	defaultBucket string
	now           func() time.Time
}

func NewStorageService(client ObjectAPI, defaultBucket string) StorageService {
	return &storageService{
		client:        client,
		defaultBucket: defaultBucket,
		now:           time.Now,
	}
}

// NewS3Client builds the S3 client for the configured connection mode.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage config: %w", err)
	}

	switch cfg.Mode {
	case config.StorageModeS3Compatible:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
			awsconfig.WithRegion(cfg.Region),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}

		return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}), nil

	default:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}

		return s3.NewFromConfig(awsCfg), nil
	}
}

func (s *storageService) Bucket() string {
	return s.defaultBucket
}

// Put writes the buffer under "<epoch-millis>-<filename>" and returns that key.
// Two uploads of the same name in the same millisecond share a key.
func (s *storageService) Put(ctx context.Context, doc *models.UploadedDocument, bucket string) (string, error) {
	key := StorageKey(s.now(), doc.OriginalFilename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucketOrDefault(bucket)),
		Key:           aws.String(key),
		Body:          bytes.NewReader(doc.Buffer),
		ContentType:   aws.String(doc.DeclaredMimeType),
		ContentLength: aws.Int64(int64(len(doc.Buffer))),
	})
	if err != nil {
		return "", NewStorageError(fmt.Sprintf("Failed to upload file to storage: %v", err), err)
	}

	return key, nil
}

// Get reads the whole object. Every failure is a STORAGE_ERROR.
func (s *storageService) Get(ctx context.Context, key string, bucket string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketOrDefault(bucket)),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, NewStorageError(fmt.Sprintf("Failed to retrieve file for extraction: %v", err), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, NewStorageError(fmt.Sprintf("Failed to retrieve file for extraction: %v", err), err)
	}

	return data, nil
}

func (s *storageService) bucketOrDefault(bucket string) string {
	if bucket != "" {
		return bucket
	}
	return s.defaultBucket
}

// StorageKey derives the object key for an upload made at t.
func StorageKey(t time.Time, filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	return fmt.Sprintf("%d-%s", t.UnixMilli(), name)
}
