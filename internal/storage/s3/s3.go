// Package s3 provides the S3 object-storage backend client.
package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"github.com/filedepot/filedepot/internal/logging"
	"github.com/filedepot/filedepot/internal/metrics"
)

// Config holds the settings for one S3 connection.
type Config struct {
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Region          string // defaults to us-east-1
	Endpoint        string // optional custom endpoint (MinIO etc.)
	ACL             string // canned ACL applied to uploads
}

// Store is a single-operation S3 client. Callers open one per
// operation and do not reuse it across calls.
type Store struct {
	client *s3.Client
	bucket string
	acl    string
}

// Object is one remote listing entry.
type Object struct {
	Key  string
	Size int64
}

// Connect builds a fresh S3 client from static credentials.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client: client,
		bucket: cfg.Bucket,
		acl:    cfg.ACL,
	}, nil
}

// Upload puts the full content under key and applies the configured
// canned ACL. The content reader is reset to the start first. Returns
// the uploaded byte size.
func (s *Store) Upload(ctx context.Context, key string, content io.ReadSeeker) (int64, error) {
	start := time.Now()

	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek content for %s: %w", key, err)
	}
	size, err := content.Seek(0, io.SeekEnd)
	if err != nil {
		return 0, fmt.Errorf("size content for %s: %w", key, err)
	}
	if _, err := content.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("seek content for %s: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          content,
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		metrics.RecordOperation(KindName, "put_object", time.Since(start), false)
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}
	metrics.RecordOperation(KindName, "put_object", time.Since(start), true)

	aclStart := time.Now()
	_, err = s.client.PutObjectAcl(ctx, &s3.PutObjectAclInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		ACL:    types.ObjectCannedACL(s.acl),
	})
	if err != nil {
		metrics.RecordOperation(KindName, "put_object_acl", time.Since(aclStart), false)
		return 0, fmt.Errorf("set acl on %s: %w", key, err)
	}
	metrics.RecordOperation(KindName, "put_object_acl", time.Since(aclStart), true)

	metrics.RecordUpload(size)
	logging.Debug("s3 put object", zap.String("key", key), zap.Int64("size", size))
	return size, nil
}

// Delete removes the object at key. A not-found response is swallowed;
// any other backend error propagates.
func (s *Store) Delete(ctx context.Context, key string) error {
	start := time.Now()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			metrics.RecordOperation(KindName, "delete_object", time.Since(start), true)
			return nil
		}
		metrics.RecordOperation(KindName, "delete_object", time.Since(start), false)
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	metrics.RecordOperation(KindName, "delete_object", time.Since(start), true)
	logging.Debug("s3 delete object", zap.String("key", key))
	return nil
}

// ListPrefix returns the objects whose keys start with prefix, in the
// order the backend reports them. One listing call; no matches yields
// an empty slice.
func (s *Store) ListPrefix(ctx context.Context, prefix string) ([]Object, error) {
	start := time.Now()

	out, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	if err != nil {
		metrics.RecordOperation(KindName, "list_objects", time.Since(start), false)
		return nil, fmt.Errorf("list prefix %s: %w", prefix, err)
	}
	metrics.RecordOperation(KindName, "list_objects", time.Since(start), true)

	objects := make([]Object, 0, len(out.Contents))
	for _, c := range out.Contents {
		objects = append(objects, Object{
			Key:  aws.ToString(c.Key),
			Size: aws.ToInt64(c.Size),
		})
	}
	return objects, nil
}

// Download streams the object at key into the file at destPath,
// creating parent directories as needed.
func (s *Store) Download(ctx context.Context, key, destPath string) error {
	start := time.Now()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		metrics.RecordOperation(KindName, "get_object", time.Since(start), false)
		return fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		metrics.RecordOperation(KindName, "get_object", time.Since(start), false)
		return fmt.Errorf("create dirs for %s: %w", destPath, err)
	}

	f, err := os.Create(destPath)
	if err != nil {
		metrics.RecordOperation(KindName, "get_object", time.Since(start), false)
		return fmt.Errorf("create %s: %w", destPath, err)
	}

	n, err := io.Copy(f, out.Body)
	if err != nil {
		f.Close()
		metrics.RecordOperation(KindName, "get_object", time.Since(start), false)
		return fmt.Errorf("download %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		metrics.RecordOperation(KindName, "get_object", time.Since(start), false)
		return fmt.Errorf("close %s: %w", destPath, err)
	}

	metrics.RecordOperation(KindName, "get_object", time.Since(start), true)
	metrics.RecordDownload(n)
	logging.Debug("s3 get object", zap.String("key", key), zap.String("dest", destPath), zap.Int64("size", n))
	return nil
}

// KindName is the metrics label for this backend.
const KindName = "s3"

// isNotFound reports whether err is an S3 not-found response.
func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}
