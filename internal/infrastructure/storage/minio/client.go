package minio

import (
	"context"
	"fmt"
	"mime"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/accesshub/accesshub-api/internal/core/ports"
)

const defaultExpiry = 15 * time.Minute

// objectAPI is the part of *minio.Client the store uses. Tests substitute a fake.
type objectAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

// Config holds the connection settings of the object store.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Expiry    time.Duration
}

// Store issues presigned download links for resource files.
type Store struct {
	api    objectAPI
	bucket string
	expiry time.Duration
}

var _ ports.ObjectStorage = (*Store)(nil)

// New connects to the object store and makes sure the bucket exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return NewWithAPI(ctx, client, cfg.Bucket, cfg.Expiry)
}

// NewWithAPI builds a Store on any objectAPI implementation.
func NewWithAPI(ctx context.Context, api objectAPI, bucket string, expiry time.Duration) (*Store, error) {
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	s := &Store{api: api, bucket: bucket, expiry: expiry}
	if err := s.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("ensure bucket %s: %w", bucket, err)
	}
	return s, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("check bucket: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket: %w", err)
	}
	return nil
}

// PresignedURL returns a GET link for objectKey that expires after the configured
// window. A non-empty fileName is sent back as the attachment name.
func (s *Store) PresignedURL(ctx context.Context, objectKey, fileName string) (string, error) {
	params := url.Values{}
	if fileName != "" {
		params.Set("response-content-disposition",
			mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
	}

	u, err := s.api.PresignedGetObject(ctx, s.bucket, objectKey, s.expiry, params)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", objectKey, err)
	}
	return u.String(), nil
}

// Ping checks that the bucket is reachable. Used by the readiness probe.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.api.BucketExists(ctx, s.bucket)
	return err
}
