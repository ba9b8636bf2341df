// Package archive writes completed turn bundles to object storage so a
// finished run can be replayed or audited after the gateway process is gone.
// Archival is best-effort: a failed write degrades to a log line, never to a
// failed turn.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/Mutajon/aMAZEn-Politics-sub005/internal/turn"
)

// ErrNotFound is returned when the requested bundle was never archived.
var ErrNotFound = errors.New("archive: bundle not found")

type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Archive stores one JSON object per archived bundle, keyed by run and day.
type S3Archive struct {
	client     *minio.Client
	bucketName string
	region     string
	initOnce   sync.Once
	initErr    error
}

func NewS3Archive(cfg S3Config) (*S3Archive, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("archive: s3 endpoint is required")
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("archive: s3 access key and secret key are required")
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("archive: s3 bucket is required")
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = "us-east-1"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("archive: init s3 client: %w", err)
	}

	return &S3Archive{
		client:     client,
		bucketName: bucket,
		region:     region,
	}, nil
}

func (s *S3Archive) ensureBucket(ctx context.Context) error {
	if s == nil || s.client == nil {
		return fmt.Errorf("archive: store is nil")
	}
	s.initOnce.Do(func() {
		exists, err := s.client.BucketExists(ctx, s.bucketName)
		if err != nil {
			s.initErr = err
			return
		}
		if exists {
			return
		}
		s.initErr = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{Region: s.region})
	})
	return s.initErr
}

// Put archives one completed bundle under the run it belongs to.
func (s *S3Archive) Put(ctx context.Context, runID string, b *turn.Bundle) error {
	if s == nil {
		return fmt.Errorf("archive: store is nil")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return fmt.Errorf("archive: run_id is required")
	}
	if b == nil {
		return fmt.Errorf("archive: bundle is nil")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return fmt.Errorf("archive: ensure bucket: %w", err)
	}

	content, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("archive: encode bundle: %w", err)
	}
	key := objectKey(runID, b.Day)
	_, err = s.client.PutObject(ctx, s.bucketName, key, bytes.NewReader(content), int64(len(content)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	return err
}

// Get retrieves the archived bundle for a single day of a run.
func (s *S3Archive) Get(ctx context.Context, runID string, day int) (*turn.Bundle, error) {
	if s == nil {
		return nil, fmt.Errorf("archive: store is nil")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("archive: run_id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("archive: ensure bucket: %w", err)
	}

	obj, err := s.client.GetObject(ctx, s.bucketName, objectKey(runID, day), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NoSuchBucket" {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var b turn.Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("archive: decode bundle: %w", err)
	}
	return &b, nil
}

// List returns the archived object keys of a run, oldest day first.
func (s *S3Archive) List(ctx context.Context, runID string) ([]string, error) {
	if s == nil {
		return nil, fmt.Errorf("archive: store is nil")
	}
	runID = strings.TrimSpace(runID)
	if runID == "" {
		return nil, fmt.Errorf("archive: run_id is required")
	}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("archive: ensure bucket: %w", err)
	}

	prefix := runID + "/"
	keys := make([]string, 0, 8)
	for obj := range s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		if obj.Key == "" {
			continue
		}
		keys = append(keys, strings.TrimPrefix(obj.Key, prefix))
	}
	sort.Strings(keys)
	return keys, nil
}

// GetURL returns a presigned link to one archived bundle, valid for an hour.
func (s *S3Archive) GetURL(ctx context.Context, runID string, day int) (string, error) {
	if s == nil || s.client == nil {
		return "", fmt.Errorf("archive: store is nil")
	}
	u, err := s.client.PresignedGetObject(ctx, s.bucketName, objectKey(runID, day), time.Hour, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func objectKey(runID string, day int) string {
	return fmt.Sprintf("%s/day%03d.json", strings.TrimSpace(runID), day)
}
