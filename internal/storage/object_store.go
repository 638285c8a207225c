package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/modinver/recoverycashback-sub000/internal/config"
)

// ObjectStore writes artifacts to an S3-compatible store. Keys are
// namespaced by a year/month prefix so bucket lifecycle rules can act on
// whole months of uploads.
type ObjectStore struct {
	client *minio.Client
	cfg    config.S3StorageConfig
}

func NewObjectStore(cfg config.S3StorageConfig) (*ObjectStore, error) {
	endpoint := cfg.Endpoint
	useSSL := cfg.UseSSL

	if strings.HasPrefix(endpoint, "http") {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("parse endpoint: %w", err)
		}
		endpoint = u.Host
		useSSL = u.Scheme == "https"
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: useSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("init object store client: %w", err)
	}

	return &ObjectStore{
		client: client,
		cfg:    cfg,
	}, nil
}

// EnsureBucket creates the bucket if missing and marks it public-read so
// asset URLs resolve without signing.
func (s *ObjectStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("bucket exists %s: %w", s.cfg.Bucket, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.cfg.Bucket, minio.MakeBucketOptions{Region: s.cfg.Region}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.cfg.Bucket, err)
		}
	}

	policy := fmt.Sprintf(`{
		"Version": "2012-10-17",
		"Statement": [{
			"Effect": "Allow",
			"Principal": {"AWS": ["*"]},
			"Action": ["s3:GetObject"],
			"Resource": ["arn:aws:s3:::%s/*"]
		}]
	}`, s.cfg.Bucket)
	if err := s.client.SetBucketPolicy(ctx, s.cfg.Bucket, policy); err != nil {
		return fmt.Errorf("set bucket policy %s: %w", s.cfg.Bucket, err)
	}
	return nil
}

func (s *ObjectStore) Write(ctx context.Context, fileName string, r io.Reader, size int64, contentType string) (string, error) {
	key := path.Join(time.Now().UTC().Format("2006/01"), fileName)

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, r, size, minio.PutObjectOptions{
		ContentType:  contentType,
		CacheControl: "public, max-age=31536000, immutable",
	})
	if err != nil {
		return "", fmt.Errorf("%w: put %s: %v", ErrWrite, key, err)
	}

	return key, nil
}

func (s *ObjectStore) Remove(ctx context.Context, key string) error {
	return s.client.RemoveObject(ctx, s.cfg.Bucket, key, minio.RemoveObjectOptions{})
}

// PublicURL is built from the key chosen at write time plus configuration.
// The store's response URL is never parsed: the base can move to a CDN
// without touching stored keys.
func (s *ObjectStore) PublicURL(key string) string {
	base := strings.TrimSuffix(s.cfg.PublicBaseURL, "/")
	if base == "" {
		endpoint := strings.TrimSuffix(s.cfg.Endpoint, "/")
		if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
			endpoint = "https://" + endpoint
		}
		base = endpoint + "/" + s.cfg.Bucket
	}
	return base + "/" + key
}

func (s *ObjectStore) Backend() string {
	return "s3"
}
